package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/usecase"
)

const helpMessage = `Grocery price ledger

/product <id> - open a product
/history - price history of the open product
/stores - stores you can report prices for
/price <store id> <amount> - record a price
/skip <store id> - record that the product was not on the shelf
/category [name|none] - change or clear the category
/suggest - suggest a category
/share - share the latest price
/export - download the history as .xlsx
/reload - refresh prices

Send an .xlsx file (store, price, date) to import prices.`

const noProductMessage = "No product open. Use /product <id> first."

func (h *BotHandler) productText(session *usecase.ProductSession) string {
	product := session.Product()

	var b strings.Builder
	b.WriteString(product.Name)
	if product.Description != "" {
		b.WriteString("\n")
		b.WriteString(product.Description)
	}

	category := product.Category()
	if category == "" {
		category = "none"
	}
	fmt.Fprintf(&b, "\nCategory: %s", category)

	if latest, ok := session.Ledger().Latest(); ok {
		fmt.Fprintf(&b, "\n%s (%s)", h.formatter.PriceSegment(&latest), h.formatter.StoreName(latest))
	} else {
		b.WriteString("\nNo prices yet")
	}
	return b.String()
}

func (h *BotHandler) historyText(session *usecase.ProductSession) string {
	records := session.Ledger().Records()
	if len(records) == 0 {
		return "No prices recorded yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Price history (%d)\n", len(records))
	for i, record := range records {
		if i == historyLimit {
			fmt.Fprintf(&b, "... and %d more", len(records)-historyLimit)
			break
		}
		amount := h.formatter.Currency(record.Amount)
		if record.IsSkipped() {
			amount = "skipped"
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", h.formatter.Date(record.ObservedAt), h.formatter.StoreName(record), amount)
	}
	return strings.TrimRight(b.String(), "\n")
}

func storesText(stores []entity.Store) string {
	if len(stores) == 0 {
		return "No stores available."
	}

	var b strings.Builder
	b.WriteString("Stores:\n")
	for _, store := range stores {
		fmt.Fprintf(&b, "%s  %s", store.ID, store.Name)
		if store.Address != "" {
			fmt.Fprintf(&b, " (%s)", store.Address)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func importText(report usecase.ImportReport) string {
	text := fmt.Sprintf("Imported %d prices.", report.Imported)
	if len(report.Skipped) == 0 {
		return text
	}

	var b strings.Builder
	b.WriteString(text)
	fmt.Fprintf(&b, "\nSkipped %d rows:", len(report.Skipped))
	for _, row := range report.Skipped {
		fmt.Fprintf(&b, "\nrow %d: %s", row.Line, row.Reason)
	}
	return b.String()
}

// productKeyboard one button per store, then share and category
func productKeyboard(stores []entity.Store) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, store := range stores {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Price at "+store.Name, storeCallback+store.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Share", shareCallback),
		tgbotapi.NewInlineKeyboardButtonData("Category", pickCategories),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func categoryKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(entity.Categories); i += 2 {
		row := tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(entity.Categories[i], catCallback+strconv.Itoa(i)),
		)
		if i+1 < len(entity.Categories) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(entity.Categories[i+1], catCallback+strconv.Itoa(i+1)))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("None", clearCallback),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func lookupCategory(name string) (string, bool) {
	for _, category := range entity.Categories {
		if strings.EqualFold(category, name) {
			return category, true
		}
	}
	return "", false
}

func categoryIndex(category string) int {
	for i, c := range entity.Categories {
		if c == category {
			return i
		}
	}
	return -1
}
