// Package i18n handles translation of user-facing messages and error messages.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		// Fallback to default locale
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return DefaultLocale
	}

	// Parse Accept-Language header (e.g., "en-US,en;q=0.9,pt;q=0.8")
	parts := strings.Split(acceptLang, ",")
	if len(parts) > 0 {
		lang := strings.TrimSpace(strings.Split(parts[0], ";")[0])
		// Extract base language (e.g., "en" from "en-US")
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		// Normalize to lowercase
		lang = strings.ToLower(lang)
		// Validate it's a supported locale
		if _, ok := getDefaultMessages()[lang]; ok {
			return lang
		}
	}

	return DefaultLocale
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"error.invalid_request":         "Invalid request",
			"error.invalid_request_body":    "Invalid request body",
			"error.internal_error":          "An unexpected error occurred",
			"error.unauthorized":            "Unauthorized",
			"error.api_key_required":        "API key is required",
			"error.invalid_api_key":         "Invalid API key",
			"error.forbidden":               "Forbidden",
			"error.not_found":               "Not found",
			"error.rate_limit_exceeded":     "Too many requests, please try again later",
			"error.conflict":                "Conflict",
			"error.invalid_token":           "Invalid or expired token",
			"error.token_required":          "Authentication token is required",
			"error.user_required":           "Sign in to use your cart",
			"error.timeout":                 "The request took too long, please try again",
			"error.service_unavailable":     "The cart is temporarily unavailable, please try again shortly",
			"error.idempotency_conflict":    "This request key was already used for a different request",
			"error.validation.quantity":     "quantity: must be at least 1",
			"error.cart.fetch_failed":       "We could not load your cart",
			"error.cart.add_failed":         "We could not add this item to your cart",
			"error.cart.update_failed":      "We could not update the quantity",
			"error.cart.remove_failed":      "We could not remove this item",
			"error.cart.clear_failed":       "We could not clear your cart",

			"success.item_added":   "Item added to cart",
			"success.item_updated": "Quantity updated",
			"success.item_removed": "Item removed from cart",
			"success.cart_cleared": "Cart cleared",
			"success.logged_out":   "Signed out",
		},
		"pt": {
			"error.invalid_request":         "Requisição inválida",
			"error.invalid_request_body":    "Corpo da requisição inválido",
			"error.internal_error":          "Ocorreu um erro inesperado",
			"error.unauthorized":            "Não autorizado",
			"error.api_key_required":        "Chave de API é obrigatória",
			"error.invalid_api_key":         "Chave de API inválida",
			"error.forbidden":               "Proibido",
			"error.not_found":               "Não encontrado",
			"error.rate_limit_exceeded":     "Muitas requisições, tente novamente mais tarde",
			"error.conflict":                "Conflito",
			"error.invalid_token":           "Token inválido ou expirado",
			"error.token_required":          "Token de autenticação é obrigatório",
			"error.user_required":           "Entre na sua conta para usar o carrinho",
			"error.timeout":                 "A requisição demorou demais, tente novamente",
			"error.service_unavailable":     "O carrinho está temporariamente indisponível, tente novamente em instantes",
			"error.idempotency_conflict":    "Esta chave de requisição já foi usada em outra requisição",
			"error.validation.quantity":     "quantity: deve ser no mínimo 1",
			"error.cart.fetch_failed":       "Não foi possível carregar seu carrinho",
			"error.cart.add_failed":         "Não foi possível adicionar este item ao carrinho",
			"error.cart.update_failed":      "Não foi possível atualizar a quantidade",
			"error.cart.remove_failed":      "Não foi possível remover este item",
			"error.cart.clear_failed":       "Não foi possível esvaziar seu carrinho",

			"success.item_added":   "Item adicionado ao carrinho",
			"success.item_updated": "Quantidade atualizada",
			"success.item_removed": "Item removido do carrinho",
			"success.cart_cleared": "Carrinho esvaziado",
			"success.logged_out":   "Sessão encerrada",
		},
		"nl": {
			"error.invalid_request":         "Ongeldig verzoek",
			"error.invalid_request_body":    "Ongeldige aanvraag body",
			"error.internal_error":          "Er is een onverwachte fout opgetreden",
			"error.unauthorized":            "Niet geautoriseerd",
			"error.api_key_required":        "API-sleutel is vereist",
			"error.invalid_api_key":         "Ongeldige API-sleutel",
			"error.forbidden":               "Verboden",
			"error.not_found":               "Niet gevonden",
			"error.rate_limit_exceeded":     "Te veel verzoeken, probeer het later opnieuw",
			"error.conflict":                "Conflict",
			"error.invalid_token":           "Ongeldig of verlopen token",
			"error.token_required":          "Authenticatietoken is vereist",
			"error.user_required":           "Log in om je winkelwagen te gebruiken",
			"error.timeout":                 "Het verzoek duurde te lang, probeer het opnieuw",
			"error.service_unavailable":     "De winkelwagen is tijdelijk niet beschikbaar, probeer het zo opnieuw",
			"error.idempotency_conflict":    "Deze verzoeksleutel is al gebruikt voor een ander verzoek",
			"error.validation.quantity":     "quantity: moet minimaal 1 zijn",
			"error.cart.fetch_failed":       "We konden je winkelwagen niet laden",
			"error.cart.add_failed":         "We konden dit artikel niet toevoegen",
			"error.cart.update_failed":      "We konden het aantal niet bijwerken",
			"error.cart.remove_failed":      "We konden dit artikel niet verwijderen",
			"error.cart.clear_failed":       "We konden je winkelwagen niet legen",

			"success.item_added":   "Artikel toegevoegd aan winkelwagen",
			"success.item_updated": "Aantal bijgewerkt",
			"success.item_removed": "Artikel verwijderd uit winkelwagen",
			"success.cart_cleared": "Winkelwagen geleegd",
			"success.logged_out":   "Uitgelogd",
		},
	}
}
