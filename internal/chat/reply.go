// SPDX-License-Identifier: MIT

package chat

import "time"

// ReplyType drives client rendering and quick-reply selection.
type ReplyType string

const (
	TypeIntro          ReplyType = "intro"
	TypeText           ReplyType = "text"
	TypeMenu           ReplyType = "menu"
	TypeMenuItem       ReplyType = "menu_item"
	TypeFAQ            ReplyType = "faq"
	TypeOrderStart     ReplyType = "order_start"
	TypeOrderUpdate    ReplyType = "order_update"
	TypeOrderView      ReplyType = "order_view"
	TypeOrderCheckout  ReplyType = "order_checkout"
	TypeOrderCancel    ReplyType = "order_cancel"
	TypeOrderPrompt    ReplyType = "order_prompt"
	TypeHours          ReplyType = "hours"
	TypeLocation       ReplyType = "location"
	TypeContact        ReplyType = "contact"
	TypeEvents         ReplyType = "events"
	TypeParking        ReplyType = "parking"
	TypeReservation    ReplyType = "reservation"
	TypeRecommendation ReplyType = "recommendation"
	TypeSignature      ReplyType = "signature_drinks"
	TypeLLM            ReplyType = "llm"
)

// Link is a labeled URL offered alongside a reply.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Reply is the structured chat response returned for every turn.
type Reply struct {
	Type         ReplyType `json:"type"`
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	Options      []string  `json:"options,omitempty"`
	Menu         string    `json:"menu,omitempty"`
	OrderSummary string    `json:"orderSummary,omitempty"`
	Links        []Link    `json:"links,omitempty"`
	UserID       string    `json:"userId"`
}

// apologyText is the canned fallback when the language model cannot help.
const apologyText = "I'm not sure how to help with that, but I'm always learning! " +
	"You can ask me about our menu, hours, or start an order."

// quickReplies returns the canned option set for a reply type.
func quickReplies(t ReplyType) []string {
	switch t {
	case TypeIntro:
		return []string{"Menu", "Order", "Events", "Hours", "Location"}
	case TypeMenu:
		return []string{"Order Drinks", "Order Snacks", "View Hot Drinks", "View Cold Drinks", "View Food"}
	case TypeOrderStart:
		return []string{"Show Menu", "Hot Drinks", "Cold Drinks", "Food", "Signature Drinks"}
	case TypeOrderUpdate:
		return []string{"Add Another Item", "View Order", "Checkout", "Cancel Order"}
	case TypeOrderCheckout:
		return []string{"Pay with Card", "Pay with Cash", "Cancel Order"}
	case TypeOrderCancel:
		return []string{"Start New Order", "View Menu"}
	case TypeOrderPrompt:
		return []string{"Show Menu", "Complete Order", "Cancel Order"}
	case TypeOrderView:
		return []string{"Add Another Item", "Checkout", "Cancel Order", "Show Menu"}
	case TypeEvents:
		return []string{"Register", "More Events", "Menu", "Hours"}
	case TypeLocation:
		return []string{"Menu", "Events", "Hours", "Contact Us"}
	case TypeContact:
		return []string{"Menu", "Order", "Hours", "Location"}
	case TypeRecommendation:
		return []string{"Order Recommended", "Menu", "Something Else"}
	default:
		return []string{"Menu", "Order", "Events", "Hours", "Location"}
	}
}

// recommendFor picks time-of-day item suggestions.
func recommendFor(now time.Time) []string {
	switch hour := now.Hour(); {
	case hour < 12:
		return []string{"Latte", "Croissant", "Iced Coffee"}
	case hour < 17:
		return []string{"Sandwich", "Cappuccino", "Frappuccino"}
	default:
		return []string{"Iced Coffee", "Sandwich", "Croissant"}
	}
}
