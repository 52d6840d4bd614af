package telegram

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"cozinha-magica/internal/kitchen"
	"cozinha-magica/internal/metrics"
	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	appTitle = "Cozinha Mágica"
	// maxFieldRunes keeps long recipes under Telegram's 4096 character limit.
	maxFieldRunes = 900
)

// Callback data sent by the inline keyboards.
const (
	cbNavPrefix    = "nav:"
	cbNewManual    = "new:manual"
	cbNewAI        = "new:ai"
	cbIngPrefix    = "ing:"
	cbGenerate     = "gen"
	cbFieldPrefix  = "field:"
	cbRewrite      = "rewrite"
	cbErase        = "erase"
	cbImport       = "import"
	cbSave         = "save"
	cbBack         = "back"
	cbRecipePrefix = "recipe:"
	cbListPrefix   = "sl:"
	cbEdit         = "edit"
	cbDelPrefix    = "del:"
	cbConfirmYes   = "confirm:yes"
	cbConfirmNo    = "confirm:no"
	cbFormNew      = "form:new"
	cbFormCreate   = "form:create"
	cbFormCancel   = "form:cancel"
	cbDetailPrefix = "detail:"
	cbExportPrefix = "export:"
)

func esc(s string) string { return html.EscapeString(s) }

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func row(buttons ...tgbotapi.InlineKeyboardButton) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(buttons...)
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return row(button("⬅️ Voltar", cbBack))
}

// renderView returns the HTML text and keyboard for the current state.
func renderView(s kitchen.Snapshot) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	if s.Error != "" {
		fmt.Fprintf(&sb, "⚠️ <b>%s</b>\n\n", esc(s.Error))
	}

	if s.PendingDelete != nil {
		text, kb := renderConfirm(*s.PendingDelete)
		sb.WriteString(text)
		return sb.String(), kb
	}

	var kb tgbotapi.InlineKeyboardMarkup
	switch s.View {
	case kitchen.ManualEditor:
		kb = renderEditor(&sb, s)
	case kitchen.AiGenerator:
		kb = renderGenerator(&sb, s)
	case kitchen.Cookbook:
		kb = renderCookbook(&sb, s)
	case kitchen.ShoppingListIndex:
		kb = renderListIndex(&sb, s)
	case kitchen.ViewRecipe:
		kb = renderRecipeView(&sb, s)
	case kitchen.ViewShoppingList:
		kb = renderListView(&sb, s)
	default:
		kb = renderDashboard(&sb)
	}
	return sb.String(), kb
}

func renderDashboard(sb *strings.Builder) tgbotapi.InlineKeyboardMarkup {
	fmt.Fprintf(sb, "🍲 <b>%s</b>\n\n", appTitle)
	sb.WriteString("Escreva sua receita e use a IA para aprimorá-la, ou selecione seus ingredientes e deixe a mágica acontecer.")
	return tgbotapi.NewInlineKeyboardMarkup(
		row(button("✍️ Criar Receita Manualmente", cbNewManual)),
		row(button("✨ Gerar Receita com IA", cbNewAI)),
		row(
			button("📖 Livro de Receitas", cbNavPrefix+kitchen.Cookbook.String()),
			button("🛒 Listas de Compras", cbNavPrefix+kitchen.ShoppingListIndex.String()),
		),
	)
}

func renderGenerator(sb *strings.Builder, s kitchen.Snapshot) tgbotapi.InlineKeyboardMarkup {
	sb.WriteString("<b>Selecione os ingredientes que você tem:</b>\n\n")
	if len(s.Selection) == 0 {
		sb.WriteString("<i>Nenhum ingrediente selecionado.</i>")
	} else {
		sb.WriteString(esc(strings.Join(s.Selection, ", ")))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var current []tgbotapi.InlineKeyboardButton
	for i, name := range recipe.Catalog() {
		label := name
		if s.Selected(name) {
			label = "✅ " + name
		}
		current = append(current, button(label, cbIngPrefix+strconv.Itoa(i)))
		if len(current) == 3 {
			rows = append(rows, current)
			current = nil
		}
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}
	rows = append(rows, row(button("🪄 Gerar Receita", cbGenerate)), backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func renderEditor(sb *strings.Builder, s kitchen.Snapshot) tgbotapi.InlineKeyboardMarkup {
	sb.WriteString("✍️ <b>Editor de Receita</b>")
	if s.Draft != nil && s.Draft.IsAIGenerated != nil && *s.Draft.IsAIGenerated {
		sb.WriteString(" ✨")
	}
	sb.WriteString("\n\n")

	var fieldButtons []tgbotapi.InlineKeyboardButton
	for _, f := range recipe.Fields {
		value := ""
		if s.Draft != nil {
			value = s.Draft.Get(f)
		}
		if value != "" {
			fmt.Fprintf(sb, "<b>%s:</b>\n%s\n\n", esc(f.Label()), esc(clip(value, maxFieldRunes)))
		}
		fieldButtons = append(fieldButtons, button("✏️ "+f.Label(), cbFieldPrefix+string(f)))
	}
	if s.Draft == nil || s.Draft.Get(recipe.FieldTitle) == "" {
		sb.WriteString("<i>Defina ao menos o título para salvar.</i>")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(fieldButtons); i += 2 {
		end := min(i+2, len(fieldButtons))
		rows = append(rows, row(fieldButtons[i:end]...))
	}
	rows = append(rows,
		row(button("🤖 Reescrever com IA", cbRewrite), button("🧽 Borracha Mágica", cbErase)),
		row(button("🌐 Importar de URL", cbImport)),
		row(button("💾 Salvar Receita", cbSave)),
		backRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func renderCookbook(sb *strings.Builder, s kitchen.Snapshot) tgbotapi.InlineKeyboardMarkup {
	sb.WriteString("📖 <b>Seu Livro de Receitas</b>\n\n")
	if len(s.Recipes) == 0 {
		sb.WriteString("<i>Nenhuma receita salva ainda.</i>")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range s.Recipes {
		label := r.Title
		if r.IsAIGenerated {
			label = "✨ " + label
		}
		rows = append(rows, row(
			button(clip(label, 40), cbRecipePrefix+r.ID),
			button("🗑️", cbDelPrefix+string(kitchen.KindRecipe)+":"+r.ID),
		))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func renderListIndex(sb *strings.Builder, s kitchen.Snapshot) tgbotapi.InlineKeyboardMarkup {
	sb.WriteString("🛒 <b>Suas Listas de Compras</b>\n\n")
	if len(s.ShoppingLists) == 0 {
		sb.WriteString("<i>Nenhuma lista de compras criada ainda.</i>")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, l := range s.ShoppingLists {
		rows = append(rows, row(
			button(clip("Lista para: "+l.RecipeTitle, 40), cbListPrefix+l.ID),
			button("🗑️", cbDelPrefix+string(kitchen.KindShoppingList)+":"+l.ID),
		))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func renderRecipeView(sb *strings.Builder, s kitchen.Snapshot) tgbotapi.InlineKeyboardMarkup {
	if s.ActiveRecipe == nil {
		sb.WriteString("<i>Receita não encontrada.</i>")
		return tgbotapi.NewInlineKeyboardMarkup(backRow())
	}
	r := *s.ActiveRecipe
	sb.WriteString(formatRecipe(r))

	if s.ListForm != nil {
		return renderListForm(sb, r, *s.ListForm)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row(button("✏️ Editar", cbEdit), button("🛒 Lista de Compras", cbFormNew)),
		row(button("📄 Exportar PDF", cbExportPrefix+"pdf"), button("🖼️ Exportar PNG", cbExportPrefix+"png")),
		row(button("🗑️ Remover", cbDelPrefix+string(kitchen.KindRecipe)+":"+r.ID)),
		backRow(),
	)
}

func renderListForm(sb *strings.Builder, r recipe.Recipe, form shopping.Details) tgbotapi.InlineKeyboardMarkup {
	fmt.Fprintf(sb, "\n\n🛒 <b>Adicionar à Lista de Compras</b>\nAdicione informações opcionais para a lista de <b>%s</b>.\n", esc(r.Title))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, d := range shopping.AllDetails {
		if v := form.Get(d); v != "" {
			fmt.Fprintf(sb, "• %s: %s\n", esc(d.Label()), esc(clip(v, 200)))
		}
		rows = append(rows, row(button("✏️ "+d.Label(), cbDetailPrefix+string(d))))
	}
	rows = append(rows, row(button("✅ Criar Lista", cbFormCreate), button("Cancelar", cbFormCancel)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func renderListView(sb *strings.Builder, s kitchen.Snapshot) tgbotapi.InlineKeyboardMarkup {
	if s.ActiveList == nil {
		sb.WriteString("<i>Lista não encontrada.</i>")
		return tgbotapi.NewInlineKeyboardMarkup(backRow())
	}
	l := *s.ActiveList
	sb.WriteString(formatShoppingList(l))
	return tgbotapi.NewInlineKeyboardMarkup(
		row(button("📄 Baixar PDF", cbExportPrefix+"pdf"), button("🖼️ Baixar PNG", cbExportPrefix+"png")),
		row(button("🗑️ Remover", cbDelPrefix+string(kitchen.KindShoppingList)+":"+l.ID)),
		backRow(),
	)
}

func renderConfirm(p kitchen.PendingDelete) (string, tgbotapi.InlineKeyboardMarkup) {
	text := "Tem certeza que deseja remover esta receita?"
	if p.Kind == kitchen.KindShoppingList {
		text = "Tem certeza que deseja remover esta lista de compras?"
	}
	return "❓ <b>" + text + "</b>", tgbotapi.NewInlineKeyboardMarkup(
		row(button("🗑️ Sim, remover", cbConfirmYes), button("Cancelar", cbConfirmNo)),
	)
}

func formatRecipe(r recipe.Recipe) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍽️ <b>%s</b>\n", esc(r.Title))
	if r.Description != "" {
		fmt.Fprintf(&sb, "<i>%s</i>\n", esc(clip(r.Description, 300)))
	}
	if r.PrepTime != "" {
		fmt.Fprintf(&sb, "⏱️ <b>Tempo:</b> %s\n", esc(r.PrepTime))
	}
	if r.Difficulty != "" {
		fmt.Fprintf(&sb, "📊 <b>Dificuldade:</b> %s\n", esc(r.Difficulty))
	}

	sb.WriteString("\n<b>Ingredientes</b>\n")
	for _, line := range recipe.Lines(clip(r.Ingredients, maxFieldRunes)) {
		fmt.Fprintf(&sb, "• %s\n", esc(line))
	}
	fmt.Fprintf(&sb, "\n<b>Modo de Preparo</b>\n%s\n", esc(clip(r.Preparation, maxFieldRunes)))
	if r.ExtraSuggestions != "" {
		fmt.Fprintf(&sb, "\n<b>Sugestões Extras</b>\n%s\n", esc(clip(r.ExtraSuggestions, 400)))
	}
	if r.Notes != "" {
		fmt.Fprintf(&sb, "\n<b>Observações</b>\n%s\n", esc(clip(r.Notes, 400)))
	}
	return sb.String()
}

func formatShoppingList(l shopping.ShoppingList) string {
	var sb strings.Builder
	sb.WriteString("🛒 <b>Lista de Compras</b>\n")
	fmt.Fprintf(&sb, "Para a receita: <b>%s</b>\n\n", esc(l.RecipeTitle))

	details := l.Details()
	for _, d := range []shopping.Detail{shopping.DetailMarket, shopping.DetailStore, shopping.DetailDate, shopping.DetailTime} {
		if v := details.Get(d); v != "" {
			fmt.Fprintf(&sb, "<b>%s:</b> %s\n", esc(d.Label()), esc(v))
		}
	}

	sb.WriteString("\n<b>Itens da Receita</b>\n")
	for _, line := range recipe.Lines(clip(l.Ingredients, maxFieldRunes)) {
		fmt.Fprintf(&sb, "☐ %s\n", esc(line))
	}
	if extra := recipe.Lines(l.ExtraItems); len(extra) > 0 {
		sb.WriteString("\n<b>Itens Extras</b>\n")
		for _, line := range extra {
			fmt.Fprintf(&sb, "☐ %s\n", esc(line))
		}
	}
	return sb.String()
}

func formatUsageReport(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 <b>Uso e Saúde</b>\n\n")

	sb.WriteString("🗓 <b>Atividade recente da IA</b>\n")
	if len(usage) == 0 {
		sb.WriteString("<i>Sem dados ainda</i>\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• <b>%s</b>: %d tokens (%d chamadas)\n", esc(d.Date), d.TotalPrompt+d.TotalCompletion, d.TotalExecution)
	}

	sb.WriteString("\n🧠 <b>Sistema</b>\n")
	fmt.Fprintf(&sb, "• RAM: %s (alloc) / %s (sys)\n", health.Alloc, health.Sys)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Dados em disco: %s\n", health.DataDiskSize)
	return sb.String()
}
