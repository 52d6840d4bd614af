package recipe

import "time"

// Patch is a partial recipe: a nil field is absent, not empty.
// Drafts in the editor and every backend response are Patches.
type Patch struct {
	ID               *string    `json:"id,omitempty"`
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Ingredients      *string    `json:"ingredients,omitempty"`
	Preparation      *string    `json:"preparation,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	PrepTime         *string    `json:"prepTime,omitempty"`
	Difficulty       *string    `json:"difficulty,omitempty"`
	ExtraSuggestions *string    `json:"extraSuggestions,omitempty"`
	IsAIGenerated    *bool      `json:"isAiGenerated,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}

// Blank is the empty draft the manual editor starts from.
func Blank() Patch {
	return Patch{
		Title:       String(""),
		Ingredients: String(""),
		Preparation: String(""),
		Notes:       String(""),
	}
}

// PatchFrom returns a patch carrying every field of r.
func PatchFrom(r Recipe) Patch {
	createdAt := r.CreatedAt
	return Patch{
		ID:               String(r.ID),
		Title:            String(r.Title),
		Description:      String(r.Description),
		Ingredients:      String(r.Ingredients),
		Preparation:      String(r.Preparation),
		Notes:            String(r.Notes),
		PrepTime:         String(r.PrepTime),
		Difficulty:       String(r.Difficulty),
		ExtraSuggestions: String(r.ExtraSuggestions),
		IsAIGenerated:    Bool(r.IsAIGenerated),
		CreatedAt:        &createdAt,
	}
}

// Content keeps only the eight content fields, dropping identity, provenance and timestamps.
func (p Patch) Content() Patch {
	return Patch{
		Title:            p.Title,
		Description:      p.Description,
		Ingredients:      p.Ingredients,
		Preparation:      p.Preparation,
		Notes:            p.Notes,
		PrepTime:         p.PrepTime,
		Difficulty:       p.Difficulty,
		ExtraSuggestions: p.ExtraSuggestions,
	}
}

// Merge returns p with every present field of other laid over it.
func (p Patch) Merge(other Patch) Patch {
	out := p.Clone()
	overlay(&out.ID, other.ID)
	overlay(&out.Title, other.Title)
	overlay(&out.Description, other.Description)
	overlay(&out.Ingredients, other.Ingredients)
	overlay(&out.Preparation, other.Preparation)
	overlay(&out.Notes, other.Notes)
	overlay(&out.PrepTime, other.PrepTime)
	overlay(&out.Difficulty, other.Difficulty)
	overlay(&out.ExtraSuggestions, other.ExtraSuggestions)
	overlay(&out.IsAIGenerated, other.IsAIGenerated)
	overlay(&out.CreatedAt, other.CreatedAt)
	return out
}

// Apply lays the present fields of p over r.
func (p Patch) Apply(r Recipe) Recipe {
	assign(&r.ID, p.ID)
	assign(&r.Title, p.Title)
	assign(&r.Description, p.Description)
	assign(&r.Ingredients, p.Ingredients)
	assign(&r.Preparation, p.Preparation)
	assign(&r.Notes, p.Notes)
	assign(&r.PrepTime, p.PrepTime)
	assign(&r.Difficulty, p.Difficulty)
	assign(&r.ExtraSuggestions, p.ExtraSuggestions)
	assign(&r.IsAIGenerated, p.IsAIGenerated)
	assign(&r.CreatedAt, p.CreatedAt)
	return r
}

// Clone deep-copies the patch so callers can hand it across goroutines.
func (p Patch) Clone() Patch {
	return Patch{
		ID:               clonePtr(p.ID),
		Title:            clonePtr(p.Title),
		Description:      clonePtr(p.Description),
		Ingredients:      clonePtr(p.Ingredients),
		Preparation:      clonePtr(p.Preparation),
		Notes:            clonePtr(p.Notes),
		PrepTime:         clonePtr(p.PrepTime),
		Difficulty:       clonePtr(p.Difficulty),
		ExtraSuggestions: clonePtr(p.ExtraSuggestions),
		IsAIGenerated:    clonePtr(p.IsAIGenerated),
		CreatedAt:        clonePtr(p.CreatedAt),
	}
}

// Get returns the value of a text field, or "" when absent.
func (p Patch) Get(f Field) string {
	if ptr := p.field(f); ptr != nil && *ptr != nil {
		return **ptr
	}
	return ""
}

// Set returns a copy of p with one text field replaced.
func (p Patch) Set(f Field, value string) Patch {
	out := p.Clone()
	if ptr := out.field(f); ptr != nil {
		*ptr = String(value)
	}
	return out
}

// IsEmpty reports whether no field is present.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

func (p *Patch) field(f Field) **string {
	switch f {
	case FieldTitle:
		return &p.Title
	case FieldDescription:
		return &p.Description
	case FieldIngredients:
		return &p.Ingredients
	case FieldPreparation:
		return &p.Preparation
	case FieldNotes:
		return &p.Notes
	case FieldPrepTime:
		return &p.PrepTime
	case FieldDifficulty:
		return &p.Difficulty
	case FieldExtraSuggestions:
		return &p.ExtraSuggestions
	}
	return nil
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

func overlay[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
