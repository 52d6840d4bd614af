// Package export captures a rendered view as a PNG image or a one-page PDF
// and hands the file to a Sink.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"strings"
	"unicode"

	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/render"
	"cozinha-magica/internal/shopping"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Format is an export file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "png" or "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// MIMEType returns the content type of the format.
func (f Format) MIMEType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "image/png"
}

// Bitmap is a captured node.
type Bitmap struct {
	PNG    []byte
	Width  int
	Height int
}

// Rasterizer captures the node with the given id of an HTML page.
type Rasterizer interface {
	Rasterize(ctx context.Context, page, nodeID string) (Bitmap, error)
}

// File is an exported document.
type File struct {
	Name   string
	Format Format
	Data   []byte
}

// Service exports views. It never changes application state.
type Service struct {
	raster Rasterizer
	sink   Sink
	logger *zap.Logger
}

// NewService creates an export service. sink may be nil when the caller
// delivers the returned File itself.
func NewService(raster Rasterizer, sink Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{raster: raster, sink: sink, logger: logger}
}

// ExportRecipe exports the recipe view under the recipe title.
func (s *Service) ExportRecipe(ctx context.Context, r recipe.Recipe, format Format) *File {
	page, err := render.RecipePage(r)
	if err != nil {
		s.logger.Error("Failed to render recipe page", zap.String("recipe_id", r.ID), zap.Error(err))
		return nil
	}
	return s.Export(ctx, page, render.RecipeNodeID, r.Title, format)
}

// ExportShoppingList exports the shopping list view as lista-<recipe title>.
func (s *Service) ExportShoppingList(ctx context.Context, l shopping.ShoppingList, format Format) *File {
	page, err := render.ShoppingListPage(l)
	if err != nil {
		s.logger.Error("Failed to render shopping list page", zap.String("list_id", l.ID), zap.Error(err))
		return nil
	}
	return s.Export(ctx, page, render.ShoppingListNodeID, l.FileName(), format)
}

// Export captures node nodeID of page and delivers it as fileName plus the
// format extension. Every failure is logged and yields nil.
func (s *Service) Export(ctx context.Context, page, nodeID, fileName string, format Format) *File {
	log := s.logger.With(zap.String("node_id", nodeID), zap.String("format", string(format)))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		log.Error("Failed to parse page", zap.Error(err))
		return nil
	}
	if doc.Find("#"+nodeID).Length() == 0 {
		log.Error("Element not found")
		return nil
	}

	bm, err := s.raster.Rasterize(ctx, page, nodeID)
	if err != nil {
		log.Error("Failed to rasterize element", zap.Error(err))
		return nil
	}
	if bm.Width == 0 || bm.Height == 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(bm.PNG))
		if err != nil {
			log.Error("Failed to read bitmap size", zap.Error(err))
			return nil
		}
		bm.Width, bm.Height = cfg.Width, cfg.Height
	}

	file := &File{Name: SanitizeFileName(fileName) + "." + string(format), Format: format}
	switch format {
	case FormatPNG:
		file.Data = bm.PNG
	case FormatPDF:
		data, err := wrapPDF(bm)
		if err != nil {
			log.Error("Failed to build PDF", zap.Error(err))
			return nil
		}
		file.Data = data
	default:
		log.Error("Unsupported export format")
		return nil
	}

	if s.sink != nil {
		if err := s.sink.Deliver(ctx, *file); err != nil {
			log.Error("Failed to deliver export", zap.String("file", file.Name), zap.Error(err))
			return nil
		}
	}

	log.Info("Exported view", zap.String("file", file.Name), zap.Int("bytes", len(file.Data)))
	return file
}

// SanitizeFileName replaces path separators and control characters.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "export"
	}
	return name
}
