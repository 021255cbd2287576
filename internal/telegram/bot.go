package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mealplanner/internal/clipper"
	"mealplanner/internal/config"
	"mealplanner/internal/meal"
	"mealplanner/internal/planner"
)

// Bot wraps the Telegram API around the meal repositories and the plan
// generator.
type Bot struct {
	api     *tgbotapi.BotAPI
	meals   *meal.Repository
	plans   *planner.PlanRepository
	clipper *clipper.Clipper
	gen     *planner.Generator
	cfg     *config.Config
	logger  *zap.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	meals *meal.Repository,
	plans *planner.PlanRepository,
	clip *clipper.Clipper,
	gen *planner.Generator,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("response", resp.Description))

	return &Bot{
		api:     api,
		meals:   meals,
		plans:   plans,
		clipper: clip,
		gen:     gen,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("failed to parse telegram update", zap.Error(err))
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}
	if !isAllowed {
		b.logger.Warn("unauthorized telegram access attempt",
			zap.Int64("userID", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName),
		)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/plan"):
		b.handlePlanRequest(msg, strings.TrimSpace(strings.TrimPrefix(text, "/plan")))
	case text == "/meals":
		b.handleMealsRequest(msg)
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.handleImportRequest(msg)
	default:
		b.send(msg.Chat.ID, "Commands:\n/plan [YYYY-MM-DD] — weekly meal plan\n/meals — list meals\nor send a recipe URL to import it.")
	}
}

func (b *Bot) handlePlanRequest(msg *tgbotapi.Message, arg string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := planner.ParseWeekStart(arg, time.Now())

	meals, err := b.meals.List(ctx)
	if err != nil {
		b.logger.Error("failed to list meals for plan", zap.Error(err))
		b.send(msg.Chat.ID, "❌ Could not load meals.")
		return
	}

	plan := b.gen.WeeklyPlan(meals, start)

	if planJSON, err := json.Marshal(plan); err == nil {
		if err := b.plans.Save(ctx, start, planJSON); err != nil {
			b.logger.Warn("failed to save plan to history", zap.Error(err))
		}
	}

	b.send(msg.Chat.ID, formatPlanMarkdown(start, plan))
}

func (b *Bot) handleMealsRequest(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	meals, err := b.meals.List(ctx)
	if err != nil {
		b.logger.Error("failed to list meals", zap.Error(err))
		b.send(msg.Chat.ID, "❌ Could not load meals.")
		return
	}

	b.send(msg.Chat.ID, formatMealsMarkdown(meals))
}

func (b *Bot) handleImportRequest(msg *tgbotapi.Message) {
	sent, err := b.api.Send(markdownMessage(msg.Chat.ID, "✂️ *Importing recipe...*"))
	if err != nil {
		b.logger.Warn("failed to send initial reply", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	rec, err := b.clipper.ClipURL(ctx, msg.Text)
	var finalText string
	if err != nil {
		b.logger.Warn("failed to import recipe", zap.String("url", msg.Text), zap.Error(err))
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error importing recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Recipe saved!*\n\n*Title:* %s\n*Ingredients:* %d", rec.Name, len(rec.IngredientLines()))
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sent.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(markdownMessage(chatID, text)); err != nil {
		b.logger.Warn("failed to send telegram message", zap.Error(err))
	}
}

func markdownMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	return msg
}

func formatPlanMarkdown(start time.Time, plan []planner.PlanEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Weekly Meal Plan* (week of %s)\n\n", start.Format(planner.ISODate)))

	for _, entry := range plan {
		name := "—"
		if entry.Meal != nil {
			name = entry.Meal.Name
		}
		sb.WriteString(fmt.Sprintf("*%s*: %s\n", entry.Label, name))
	}

	if !planner.HasMeals(plan) {
		sb.WriteString("\n_No meals stored yet. Add some meals first!_")
	}
	return sb.String()
}

func formatMealsMarkdown(meals []meal.Meal) string {
	if len(meals) == 0 {
		return "_No meals stored yet._"
	}

	var sb strings.Builder
	sb.WriteString("🍽 *Meals*\n\n")
	for _, m := range meals {
		sb.WriteString(fmt.Sprintf("• %s", m.Name))
		if m.Recipe != nil {
			sb.WriteString(fmt.Sprintf(" (%s)", m.Recipe.Name))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
