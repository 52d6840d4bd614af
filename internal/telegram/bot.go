package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"cozinha-magica/internal/chef"
	"cozinha-magica/internal/config"
	"cozinha-magica/internal/export"
	"cozinha-magica/internal/kitchen"
	"cozinha-magica/internal/metrics"
	"cozinha-magica/internal/recipe"
	"cozinha-magica/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const busyNotice = "⏳ Aguarde, a IA ainda está trabalhando na sua receita."

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// UsageReporter reads the token usage ledger for the /metrics command.
type UsageReporter interface {
	GetDailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
}

// Bot maps chat updates onto controller transitions and answers with the
// rendered view.
type Bot struct {
	api        Sender
	kitchen    *kitchen.Controller
	usage      UsageReporter
	collectors *metrics.Collectors
	cfg        *config.Config
	logger     *zap.Logger

	prompts *promptStore
	wg      sync.WaitGroup
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	k *kitchen.Controller,
	usage UsageReporter,
	collectors *metrics.Collectors,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Authorized on account", zap.String("username", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return nil, fmt.Errorf("failed to set webhook: %w", err)
	}

	info, err := api.GetWebhookInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook info: %w", err)
	}
	if info.LastErrorDate != 0 {
		logger.Warn("Telegram callback failed", zap.String("error", info.LastErrorMessage))
	}

	return newBot(api, cfg, k, usage, collectors, logger), nil
}

func newBot(api Sender, cfg *config.Config, k *kitchen.Controller, usage UsageReporter, collectors *metrics.Collectors, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:        api,
		kitchen:    k,
		usage:      usage,
		collectors: collectors,
		cfg:        cfg,
		logger:     logger,
		prompts:    newPromptStore(promptTTL, time.Now),
	}
}

// Dispatch handles an update in the background.
func (b *Bot) Dispatch(update tgbotapi.Update) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.HandleUpdate(context.Background(), update)
	}()
}

// Wait blocks until every dispatched update has been handled.
func (b *Bot) Wait() { b.wg.Wait() }

// HandleUpdate processes one update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) count(kind, outcome string) {
	if b.collectors != nil {
		b.collectors.Updates.WithLabelValues(kind, outcome).Inc()
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || !b.cfg.IsAllowed(msg.From.ID) {
		if msg.From != nil {
			b.logger.Warn("Unauthorized access attempt", zap.Int64("user_id", msg.From.ID), zap.String("username", msg.From.UserName))
		}
		b.count("message", "denied")
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if msg.IsCommand() {
		b.count("command", "ok")
		switch msg.Command() {
		case "metrics":
			b.handleMetricsCommand(ctx, msg)
			return
		case "start", "menu":
			b.prompts.clear(chatID)
			_ = b.kitchen.Navigate(kitchen.Dashboard)
		}
		b.sendView(chatID)
		return
	}

	p, ok := b.prompts.take(chatID)
	if !ok {
		b.count("message", "ignored")
		b.sendView(chatID)
		return
	}
	b.count("message", "ok")

	var err error
	switch p.kind {
	case promptField:
		err = b.kitchen.SetField(recipe.Field(p.name), text)
	case promptDetail:
		err = b.kitchen.SetListDetail(shopping.Detail(p.name), text)
	case promptErase:
		b.runAI(ctx, chatID, 0, kitchen.EraseLabel(text), func(ctx context.Context) error {
			return b.kitchen.Erase(ctx, text)
		})
		return
	case promptImport:
		b.runAI(ctx, chatID, 0, kitchen.LabelImporting, func(ctx context.Context) error {
			return b.kitchen.Import(ctx, text)
		})
		return
	}
	if err != nil {
		b.logger.Debug("Prompt answer rejected", zap.String("prompt", p.name), zap.Error(err))
	}
	b.sendView(chatID)
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.From == nil || !b.cfg.IsAllowed(q.From.ID) {
		b.count("callback", "denied")
		b.answer(q.ID, "")
		return
	}
	if q.Message == nil || q.Message.Chat == nil {
		b.answer(q.ID, "")
		return
	}
	chatID := q.Message.Chat.ID
	msgID := q.Message.MessageID
	data := q.Data

	// Any button press abandons a pending text prompt.
	b.prompts.clear(chatID)

	var err error
	switch {
	case data == cbNewManual:
		err = b.kitchen.StartManualRecipe()
	case data == cbNewAI:
		err = b.kitchen.StartGenerator()
	case strings.HasPrefix(data, cbNavPrefix):
		v, ok := kitchen.ParseView(strings.TrimPrefix(data, cbNavPrefix))
		if !ok {
			err = kitchen.ErrNotAvailable
			break
		}
		err = b.kitchen.Navigate(v)
	case strings.HasPrefix(data, cbIngPrefix):
		err = b.toggleIngredient(strings.TrimPrefix(data, cbIngPrefix))
	case data == cbGenerate:
		b.answer(q.ID, "")
		b.runAI(ctx, chatID, msgID, kitchen.LabelGenerating, b.kitchen.Generate)
		return
	case data == cbRewrite:
		b.answer(q.ID, "")
		b.runAI(ctx, chatID, msgID, kitchen.LabelRewriting, b.kitchen.Rewrite)
		return
	case strings.HasPrefix(data, cbFieldPrefix):
		f, ok := recipe.ParseField(strings.TrimPrefix(data, cbFieldPrefix))
		if !ok || b.kitchen.Snapshot().View != kitchen.ManualEditor {
			err = kitchen.ErrNotAvailable
			break
		}
		b.arm(q.ID, chatID, prompt{kind: promptField, name: string(f)}, fmt.Sprintf("Envie o novo valor para <b>%s</b>:", esc(f.Label())))
		return
	case data == cbErase:
		if b.kitchen.Snapshot().View != kitchen.ManualEditor {
			err = kitchen.ErrNotAvailable
			break
		}
		b.arm(q.ID, chatID, prompt{kind: promptErase, name: "erase"}, "🧽 <b>Borracha Mágica</b>\nO que você quer remover da receita?")
		return
	case data == cbImport:
		if b.kitchen.Snapshot().View != kitchen.ManualEditor {
			err = kitchen.ErrNotAvailable
			break
		}
		b.arm(q.ID, chatID, prompt{kind: promptImport, name: "import"}, "🌐 Envie o endereço (URL) da receita que deseja importar:")
		return
	case data == cbSave:
		err = b.kitchen.SaveDraft(ctx)
	case data == cbBack:
		err = b.kitchen.Back()
	case strings.HasPrefix(data, cbRecipePrefix):
		err = b.kitchen.OpenRecipe(strings.TrimPrefix(data, cbRecipePrefix))
	case strings.HasPrefix(data, cbListPrefix):
		err = b.kitchen.OpenShoppingList(strings.TrimPrefix(data, cbListPrefix))
	case data == cbEdit:
		err = b.kitchen.EditRecipe()
	case strings.HasPrefix(data, cbDelPrefix):
		kind, id, _ := strings.Cut(strings.TrimPrefix(data, cbDelPrefix), ":")
		err = b.kitchen.RequestDelete(kitchen.Kind(kind), id)
	case data == cbConfirmYes:
		err = b.kitchen.ConfirmDelete(ctx)
	case data == cbConfirmNo:
		b.kitchen.CancelDelete()
	case data == cbFormNew:
		err = b.kitchen.OpenShoppingListForm()
	case data == cbFormCreate:
		err = b.kitchen.CreateShoppingList(ctx)
	case data == cbFormCancel:
		b.kitchen.CancelShoppingListForm()
	case strings.HasPrefix(data, cbDetailPrefix):
		d, ok := shopping.ParseDetail(strings.TrimPrefix(data, cbDetailPrefix))
		if !ok || b.kitchen.Snapshot().ListForm == nil {
			err = kitchen.ErrNotAvailable
			break
		}
		b.arm(q.ID, chatID, prompt{kind: promptDetail, name: string(d)}, fmt.Sprintf("Envie o valor para <b>%s</b>:", esc(d.Label())))
		return
	case strings.HasPrefix(data, cbExportPrefix):
		b.answer(q.ID, "")
		b.sendExport(ctx, chatID, strings.TrimPrefix(data, cbExportPrefix))
		return
	default:
		err = kitchen.ErrNotAvailable
	}

	switch {
	case err == nil:
		b.count("callback", "ok")
		b.answer(q.ID, "")
	case errors.Is(err, kitchen.ErrNotAvailable), errors.Is(err, kitchen.ErrNotFound):
		// Buttons of an older message can outlive the view that produced them.
		b.count("callback", "stale")
		b.answer(q.ID, "Ação indisponível nesta tela.")
	default:
		b.count("callback", "error")
		b.answer(q.ID, "")
	}
	b.editView(chatID, msgID)
}

func (b *Bot) toggleIngredient(raw string) error {
	idx, err := strconv.Atoi(raw)
	catalog := recipe.Catalog()
	if err != nil || idx < 0 || idx >= len(catalog) {
		return kitchen.ErrNotAvailable
	}
	return b.kitchen.ToggleIngredient(catalog[idx])
}

// runAI shows the loading label in a status message, runs the transition
// and replaces the status with the resulting view.
func (b *Bot) runAI(ctx context.Context, chatID int64, msgID int, label string, action func(context.Context) error) {
	if b.kitchen.Snapshot().Loading() {
		b.count("ai", "busy")
		b.send(tgbotapi.NewMessage(chatID, busyNotice))
		return
	}

	if msgID == 0 {
		status := tgbotapi.NewMessage(chatID, "⏳ "+esc(label))
		status.ParseMode = tgbotapi.ModeHTML
		sent, err := b.api.Send(status)
		if err != nil {
			b.logger.Warn("Failed to send status message", zap.Error(err))
		} else {
			msgID = sent.MessageID
		}
	} else {
		edit := tgbotapi.NewEditMessageText(chatID, msgID, "⏳ "+esc(label))
		edit.ParseMode = tgbotapi.ModeHTML
		b.send(edit)
	}

	err := action(ctx)
	switch {
	case errors.Is(err, kitchen.ErrBusy):
		b.count("ai", "busy")
		b.send(tgbotapi.NewMessage(chatID, busyNotice))
		return
	case err != nil:
		b.count("ai", "error")
		if !isUserError(err) {
			b.logger.Error("AI action failed", zap.String("label", label), zap.Error(err))
		}
	default:
		b.count("ai", "ok")
	}

	if msgID == 0 {
		b.sendView(chatID)
		return
	}
	b.editView(chatID, msgID)
}

func isUserError(err error) bool {
	var v *chef.ValidationError
	return errors.As(err, &v) || errors.Is(err, kitchen.ErrNotAvailable)
}

func (b *Bot) arm(callbackID string, chatID int64, p prompt, question string) {
	b.prompts.arm(chatID, p)
	b.count("callback", "ok")
	b.answer(callbackID, "")
	msg := tgbotapi.NewMessage(chatID, question)
	msg.ParseMode = tgbotapi.ModeHTML
	b.send(msg)
}

func (b *Bot) sendExport(ctx context.Context, chatID int64, rawFormat string) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		b.count("export", "invalid")
		return
	}
	file, err := b.kitchen.Export(ctx, format)
	if err != nil {
		b.count("export", "stale")
		b.logger.Debug("Export not available", zap.Error(err))
		return
	}
	if file == nil {
		b.count("export", "failed")
		return
	}
	b.count("export", "ok")
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: file.Name, Bytes: file.Data})
	b.send(doc)
}

func (b *Bot) handleMetricsCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ Comando restrito ao administrador."))
		return
	}
	if b.usage == nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Métricas indisponíveis."))
		return
	}

	usage, err := b.usage.GetDailyUsage(ctx, 7)
	if err != nil {
		b.logger.Error("Failed to load usage", zap.Error(err))
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Falha ao carregar as métricas."))
		return
	}

	health := metrics.GetSysHealth(b.dataDir())
	reply := tgbotapi.NewMessage(msg.Chat.ID, formatUsageReport(usage, health))
	reply.ParseMode = tgbotapi.ModeHTML
	b.send(reply)
}

func (b *Bot) dataDir() string {
	switch b.cfg.StorageBackend {
	case config.StorageFile:
		return b.cfg.StorageDir
	case config.StorageSQLite:
		return b.cfg.DatabasePath
	}
	return ""
}

func (b *Bot) sendView(chatID int64) {
	text, kb := renderView(b.kitchen.Snapshot())
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	b.send(msg)
}

func (b *Bot) editView(chatID int64, msgID int) {
	text, kb := renderView(b.kitchen.Snapshot())
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, kb)
	edit.ParseMode = tgbotapi.ModeHTML
	b.send(edit)
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Debug("Failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		// Telegram rejects edits that do not change the message.
		b.logger.Debug("Telegram send failed", zap.Error(err))
	}
}
