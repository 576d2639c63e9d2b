package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
	"github.com/yourusername/grocery-price-ledger/internal/usecase"
	"go.uber.org/zap"
)

const (
	maxSheetSize   = 5 * 1024 * 1024
	historyLimit   = 15
	storeCallback  = "store:"
	skipCallback   = "skip:"
	catCallback    = "cat:"
	shareCallback  = "share"
	pickCategories = "categories"
	clearCallback  = "nocat"
)

// Messenger the part of the bot API the handler sends through
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// RecordFormatter renders amounts, dates and store names for chat replies
type RecordFormatter interface {
	Currency(amount decimal.Decimal) string
	Date(t time.Time) string
	PriceSegment(record *entity.PriceRecord) string
	StoreName(record entity.PriceRecord) string
}

// chatState the product screen of one chat
type chatState struct {
	session *usecase.ProductSession
	// store whose price the next plain text message carries
	awaitingStore string
}

// BotHandler Telegram bot handler
type BotHandler struct {
	api         *tgbotapi.BotAPI
	bot         Messenger
	shareChatID int64
	products    usecase.ProductUseCase
	sheets      usecase.SheetUseCase
	formatter   RecordFormatter
	log         *zap.Logger
	fetchFile   func(fileID string) ([]byte, error)

	mu    sync.RWMutex
	chats map[int64]*chatState
}

// NewBotHandler connects to Telegram with token
func NewBotHandler(
	token string,
	shareChatID int64,
	products usecase.ProductUseCase,
	sheets usecase.SheetUseCase,
	formatter RecordFormatter,
	log *zap.Logger,
) (*BotHandler, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	h := newHandler(api, shareChatID, products, sheets, formatter, log)
	h.api = api
	h.fetchFile = h.downloadFile
	return h, nil
}

func newHandler(
	bot Messenger,
	shareChatID int64,
	products usecase.ProductUseCase,
	sheets usecase.SheetUseCase,
	formatter RecordFormatter,
	log *zap.Logger,
) *BotHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BotHandler{
		bot:         bot,
		shareChatID: shareChatID,
		products:    products,
		sheets:      sheets,
		formatter:   formatter,
		log:         log,
		chats:       make(map[int64]*chatState),
	}
}

// Start long-polls updates until ctx is cancelled
func (h *BotHandler) Start(ctx context.Context) error {
	h.log.Info("bot started", zap.String("username", h.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.api.GetUpdatesChan(u)
	defer h.api.StopReceivingUpdates()

	return h.serve(ctx, updates)
}

// serve dispatches updates until ctx is cancelled or updates is closed
func (h *BotHandler) serve(ctx context.Context, updates <-chan tgbotapi.Update) error {
	for {
		select {
		case <-ctx.Done():
			h.log.Info("bot stopping")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				h.log.Info("update channel closed")
				return nil
			}
			if update.CallbackQuery != nil {
				go h.handleCallback(ctx, update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage routes one incoming message
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}

	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	if message.Text != "" {
		h.handleTextMessage(ctx, message)
	}
}

// handleCommand dispatches bot commands
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())

	switch message.Command() {
	case "start", "help":
		h.sendMessage(chatID, helpMessage)
	case "product":
		h.handleProductCommand(ctx, chatID, args)
	case "reload":
		h.handleReloadCommand(ctx, chatID)
	case "history":
		h.handleHistoryCommand(chatID)
	case "stores":
		h.handleStoresCommand(chatID)
	case "price":
		h.handlePriceCommand(ctx, chatID, args)
	case "skip":
		h.handleSkipCommand(ctx, chatID, args)
	case "category":
		h.handleCategoryCommand(ctx, chatID, strings.TrimSpace(message.CommandArguments()))
	case "suggest":
		h.handleSuggestCommand(ctx, chatID)
	case "share":
		h.handleShare(chatID)
	case "export":
		h.handleExportCommand(ctx, chatID)
	default:
		h.sendMessage(chatID, "Unknown command. /help for the list.")
	}
}

func (h *BotHandler) handleProductCommand(ctx context.Context, chatID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "Usage: /product <product id>")
		return
	}

	session, err := h.products.Open(ctx, args[0])
	if err != nil {
		h.log.Warn("open product failed", zap.Int64("chat_id", chatID), zap.String("product_id", args[0]), zap.Error(err))
		h.sendMessage(chatID, errorText(err))
		return
	}

	h.mu.Lock()
	h.chats[chatID] = &chatState{session: session}
	h.mu.Unlock()

	h.sendProductCard(chatID, session)
}

func (h *BotHandler) handleReloadCommand(ctx context.Context, chatID int64) {
	session, ok := h.requireSession(chatID)
	if !ok {
		return
	}
	if err := h.products.ReloadPrices(ctx, session); err != nil {
		h.sendMessage(chatID, errorText(err))
		return
	}
	h.sendProductCard(chatID, session)
}

func (h *BotHandler) handleHistoryCommand(chatID int64) {
	session, ok := h.requireSession(chatID)
	if !ok {
		return
	}
	h.sendMessage(chatID, h.historyText(session))
}

func (h *BotHandler) handleStoresCommand(chatID int64) {
	session, ok := h.requireSession(chatID)
	if !ok {
		return
	}
	h.sendMessage(chatID, storesText(session.Stores()))
}

func (h *BotHandler) handlePriceCommand(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "Usage: /price <store id> <amount>")
		return
	}
	h.submitInput(ctx, chatID, args[0], strings.Join(args[1:], " "))
}

func (h *BotHandler) handleSkipCommand(ctx context.Context, chatID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "Usage: /skip <store id>")
		return
	}
	h.skip(ctx, chatID, args[0])
}

func (h *BotHandler) handleCategoryCommand(ctx context.Context, chatID int64, name string) {
	session, ok := h.requireSession(chatID)
	if !ok {
		return
	}

	if name == "" {
		msg := tgbotapi.NewMessage(chatID, "Choose a category:")
		msg.ReplyMarkup = categoryKeyboard()
		h.send(msg)
		return
	}

	if strings.EqualFold(name, "none") {
		h.saveCategory(ctx, chatID, session, "")
		return
	}

	category, found := lookupCategory(name)
	if !found {
		h.sendMessage(chatID, fmt.Sprintf("Unknown category %q. Send /category to pick one.", name))
		return
	}
	h.saveCategory(ctx, chatID, session, category)
}

func (h *BotHandler) handleSuggestCommand(ctx context.Context, chatID int64) {
	session, ok := h.requireSession(chatID)
	if !ok {
		return
	}

	category, err := h.products.SuggestCategory(ctx, session)
	if err != nil {
		h.log.Warn("category suggestion failed", zap.String("product_id", session.ProductID()), zap.Error(err))
		h.sendMessage(chatID, errorText(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Suggested category: %s", category))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Apply", catCallback+strconv.Itoa(categoryIndex(category))),
		),
	)
	h.send(msg)
}

func (h *BotHandler) handleShare(chatID int64) {
	session, ok := h.requireSession(chatID)
	if !ok {
		return
	}

	_, message := h.products.Share(session)
	h.sendMessage(chatID, message)
	if h.shareChatID != 0 && h.shareChatID != chatID {
		h.sendMessage(h.shareChatID, message)
	}
}

func (h *BotHandler) handleExportCommand(ctx context.Context, chatID int64) {
	session, ok := h.requireSession(chatID)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.sheets.Export(ctx, session, &buf); err != nil {
		h.log.Error("export failed", zap.String("product_id", session.ProductID()), zap.Error(err))
		h.sendMessage(chatID, errorText(err))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("prices-%s.xlsx", session.ProductID()),
		Bytes: buf.Bytes(),
	})
	h.send(doc)
}

// handleDocumentMessage imports an uploaded price sheet into the open product
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	session, ok := h.requireSession(chatID)
	if !ok {
		return
	}

	doc := message.Document
	if doc.FileSize > maxSheetSize {
		h.sendMessage(chatID, "The file must not exceed 5MB.")
		return
	}
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".xlsx") {
		h.sendMessage(chatID, "Only Excel files (.xlsx) are accepted.")
		return
	}

	fileBytes, err := h.fetchFile(doc.FileID)
	if err != nil {
		h.log.Error("file download failed", zap.String("file_id", doc.FileID), zap.Error(err))
		h.sendMessage(chatID, "Could not download the file.")
		return
	}

	report, err := h.sheets.Import(ctx, session, bytes.NewReader(fileBytes))
	if err != nil {
		h.log.Error("import failed", zap.String("product_id", session.ProductID()), zap.Error(err))
		h.sendMessage(chatID, fmt.Sprintf("Import stopped after %d rows: %s", report.Imported, errorText(err)))
		return
	}

	h.sendMessage(chatID, importText(report))
}

// handleTextMessage plain text is a price while a store is selected
func (h *BotHandler) handleTextMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	h.mu.RLock()
	state := h.chats[chatID]
	var storeID string
	if state != nil {
		storeID = state.awaitingStore
	}
	h.mu.RUnlock()

	if storeID == "" {
		h.sendMessage(chatID, "Open a product with /product <id>, then pick a store to enter its price.")
		return
	}

	h.submitInput(ctx, chatID, storeID, message.Text)
}

func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	data := cq.Data

	if _, err := h.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		h.log.Debug("callback answer failed", zap.Error(err))
	}

	switch {
	case strings.HasPrefix(data, storeCallback):
		h.awaitPrice(chatID, strings.TrimPrefix(data, storeCallback))
	case strings.HasPrefix(data, skipCallback):
		h.skip(ctx, chatID, strings.TrimPrefix(data, skipCallback))
	case data == clearCallback:
		session, ok := h.requireSession(chatID)
		if !ok {
			return
		}
		h.saveCategory(ctx, chatID, session, "")
	case strings.HasPrefix(data, catCallback):
		idx, err := strconv.Atoi(strings.TrimPrefix(data, catCallback))
		if err != nil || idx < 0 || idx >= len(entity.Categories) {
			h.sendMessage(chatID, "Unknown category.")
			return
		}
		session, ok := h.requireSession(chatID)
		if !ok {
			return
		}
		h.saveCategory(ctx, chatID, session, entity.Categories[idx])
	case data == pickCategories:
		h.handleCategoryCommand(ctx, chatID, "")
	case data == shareCallback:
		h.handleShare(chatID)
	}
}

// awaitPrice opens the price entry for storeID
func (h *BotHandler) awaitPrice(chatID int64, storeID string) {
	h.mu.Lock()
	state := h.chats[chatID]
	if state != nil {
		state.awaitingStore = storeID
	}
	h.mu.Unlock()

	if state == nil {
		h.sendMessage(chatID, noProductMessage)
		return
	}

	name := storeID
	for _, store := range state.session.Stores() {
		if store.ID == storeID {
			name = store.Name
			break
		}
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Send the price at %s, or skip if it was not on the shelf.", name))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Skip", skipCallback+storeID)),
	)
	h.send(msg)
}

func (h *BotHandler) submitInput(ctx context.Context, chatID int64, storeID, input string) {
	session, ok := h.requireSession(chatID)
	if !ok {
		return
	}

	record, err := h.products.SubmitPriceInput(ctx, session, storeID, input)
	if err != nil {
		// an invalid amount keeps the price entry open
		if !errors.Is(err, usecase.ErrInvalidAmount) {
			h.clearAwaiting(chatID)
		}
		h.sendMessage(chatID, errorText(err))
		return
	}

	h.clearAwaiting(chatID)
	h.sendMessage(chatID, fmt.Sprintf("Saved: %s at %s", h.formatter.PriceSegment(record), h.formatter.StoreName(*record)))
}

func (h *BotHandler) skip(ctx context.Context, chatID int64, storeID string) {
	session, ok := h.requireSession(chatID)
	if !ok {
		return
	}

	record, err := h.products.SkipPrice(ctx, session, storeID)
	h.clearAwaiting(chatID)
	if err != nil {
		h.sendMessage(chatID, errorText(err))
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("Skipped at %s", h.formatter.StoreName(*record)))
}

func (h *BotHandler) saveCategory(ctx context.Context, chatID int64, session *usecase.ProductSession, category string) {
	session.SelectCategory(category)
	if err := h.products.SaveCategory(ctx, session); err != nil {
		h.log.Warn("category save failed", zap.String("product_id", session.ProductID()), zap.Error(err))
		h.sendMessage(chatID, errorText(err))
		return
	}
	if category == "" {
		h.sendMessage(chatID, "Category cleared.")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("Category saved: %s", category))
}

func (h *BotHandler) requireSession(chatID int64) (*usecase.ProductSession, bool) {
	h.mu.RLock()
	state := h.chats[chatID]
	h.mu.RUnlock()

	if state == nil {
		h.sendMessage(chatID, noProductMessage)
		return nil, false
	}
	return state.session, true
}

func (h *BotHandler) clearAwaiting(chatID int64) {
	h.mu.Lock()
	if state := h.chats[chatID]; state != nil {
		state.awaitingStore = ""
	}
	h.mu.Unlock()
}

func (h *BotHandler) sendProductCard(chatID int64, session *usecase.ProductSession) {
	msg := tgbotapi.NewMessage(chatID, h.productText(session))
	msg.ReplyMarkup = productKeyboard(session.Stores())
	h.send(msg)
}

// sendMessage plain text reply
func (h *BotHandler) sendMessage(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *BotHandler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.log.Error("send failed", zap.Error(err))
	}
}

// downloadFile fetches an uploaded document from Telegram
func (h *BotHandler) downloadFile(fileID string) ([]byte, error) {
	file, err := h.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	resp, err := http.Get(file.Link(h.api.Token))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxSheetSize+1))
}

// errorText user facing text for usecase and repository errors
func errorText(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidAmount):
		return "Enter a valid price, for example 4,50."
	case errors.Is(err, usecase.ErrUnknownCategory):
		return "Unknown category. Send /category to pick one."
	case errors.Is(err, usecase.ErrMissingReference):
		return "A product and a store are required."
	case errors.Is(err, usecase.ErrValidation):
		return "That input is not valid."
	case errors.Is(err, usecase.ErrSubmissionInFlight):
		return "A price is already being saved, please wait."
	case errors.Is(err, usecase.ErrSaveInFlight):
		return "The category is already being saved, please wait."
	case errors.Is(err, usecase.ErrNoGenericProduct):
		return "This product has no generic product, so its category cannot be changed."
	case errors.Is(err, usecase.ErrSuggestionsDisabled):
		return "Category suggestions are not configured."
	case errors.Is(err, repository.ErrNotFound):
		return "Product or store not found."
	default:
		return "Something went wrong, please try again."
	}
}
