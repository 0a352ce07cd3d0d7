// SPDX-License-Identifier: MIT

// Package chat implements the conversational engine: one message in,
// one structured reply out, with all dialogue state behind a store.
package chat

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hazelbot/hazel/internal/conversation"
	"github.com/hazelbot/hazel/internal/intent"
	"github.com/hazelbot/hazel/internal/knowledge"
	"github.com/hazelbot/hazel/internal/llm"
	"github.com/hazelbot/hazel/internal/log"
	"github.com/hazelbot/hazel/internal/menu"
	"github.com/hazelbot/hazel/internal/metrics"
	"github.com/hazelbot/hazel/internal/order"
	"github.com/hazelbot/hazel/internal/session"
)

// Engine turns user messages into replies. All per-user state lives in
// the session store; the engine itself holds no conversation data and
// is safe for concurrent use.
type Engine struct {
	kb      *knowledge.Base
	menu    *menu.Menu
	store   session.Store
	matcher intent.Strategy
	llm     llm.Client
	ids     order.IDGenerator
	tracker *order.Tracker
	now     func() time.Time

	// userMu serializes turns per user so concurrent requests cannot
	// interleave context reads and writes.
	mu     sync.Mutex
	userMu map[string]*sync.Mutex
}

// Options wires the engine's collaborators.
type Options struct {
	Knowledge *knowledge.Base
	Menu      *menu.Menu
	Store     session.Store
	Matcher   intent.Strategy
	LLM       llm.Client
	IDs       order.IDGenerator
	Tracker   *order.Tracker
	Now       func() time.Time
}

// New builds an engine. Now defaults to time.Now.
func New(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		kb:      opts.Knowledge,
		menu:    opts.Menu,
		store:   opts.Store,
		matcher: opts.Matcher,
		llm:     opts.LLM,
		ids:     opts.IDs,
		tracker: opts.Tracker,
		now:     opts.Now,
		userMu:  make(map[string]*sync.Mutex),
	}
}

func (e *Engine) lockUser(userID string) *sync.Mutex {
	e.mu.Lock()
	mu, ok := e.userMu[userID]
	if !ok {
		mu = &sync.Mutex{}
		e.userMu[userID] = mu
	}
	e.mu.Unlock()
	mu.Lock()
	return mu
}

var nameRe = regexp.MustCompile(`(?i)\bmy name is ([\p{L}]+)`)

// Handle processes one turn for a user. The reply is always usable;
// only store failures surface as errors.
func (e *Engine) Handle(ctx context.Context, userID, message string) (*Reply, error) {
	if userID == "" {
		return nil, fmt.Errorf("chat: empty user id")
	}
	mu := e.lockUser(userID)
	defer mu.Unlock()

	start := e.now()
	convo, err := e.store.Context(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		convo = conversation.New(userID)
	} else if err != nil {
		return nil, fmt.Errorf("load context: %w", err)
	}

	if m := nameRe.FindStringSubmatch(message); m != nil {
		convo.SetPreference("name", m[1])
	}

	reply, outcome, err := e.dispatch(ctx, convo, message)
	if err != nil {
		return nil, err
	}
	reply.UserID = userID

	convo.Remember(message, reply.Text, e.now())
	if err := e.store.PutContext(ctx, convo); err != nil {
		return nil, fmt.Errorf("save context: %w", err)
	}
	metrics.RecordChatTurn(outcome, time.Since(start))
	chatLog := log.WithComponentFromContext(ctx, "chat")
	chatLog.Debug().
		Str(log.FieldUserID, userID).
		Str(log.FieldReplyType, string(reply.Type)).
		Str(log.FieldStrategy, e.matcher.Name()).
		Msg("turn handled")
	return reply, nil
}

func (e *Engine) dispatch(ctx context.Context, convo *conversation.Context, message string) (*Reply, string, error) {
	if convo.Ordering {
		r, err := e.orderStep(ctx, convo, message)
		return r, "order_flow", err
	}

	if m, ok := e.matcher.Match(message, e.kb.Intents()); ok {
		metrics.RecordIntentMatch(m.Intent.Tag)
		convo.CurrentIntent = m.Intent.Tag
		r, err := e.intentReply(ctx, convo, m.Intent)
		return r, "intent", err
	}

	if f, ok := e.kb.FAQAnswer(message); ok {
		return &Reply{Type: TypeFAQ, Title: "FAQ", Text: f.Answer, Options: quickReplies(TypeFAQ)}, "intent", nil
	}

	if item, ok := e.menu.Lookup(message); ok {
		return e.menuItemReply(item), "menu_item", nil
	}

	return e.llmReply(ctx, convo, message)
}

// orderStep advances the in-progress order. Checkout and cancel are
// knowledge-base intents resolved by the same matcher as everything
// else, so retraining their patterns needs no code change.
func (e *Engine) orderStep(ctx context.Context, convo *conversation.Context, message string) (*Reply, error) {
	o, err := e.store.ActiveOrder(ctx, convo.UserID)
	if errors.Is(err, session.ErrNotFound) {
		// Ordering flag without an order means it was cancelled or
		// completed elsewhere; fall back to a fresh one.
		o = order.New(e.ids.NewID(), convo.UserID, e.now())
	} else if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	if item, ok := e.menu.Lookup(message); ok {
		o.Add(order.Line{Name: item.Name, UnitPrice: item.UnitPrice(), Quantity: 1}, e.now())
		if err := e.store.PutActiveOrder(ctx, o); err != nil {
			return nil, fmt.Errorf("save order: %w", err)
		}
		chatLog := log.WithComponentFromContext(ctx, "chat")
		chatLog.Info().
			Str(log.FieldOrderID, o.ID).
			Str(log.FieldItem, item.Name).
			Int(log.FieldQuantity, 1).
			Msg("item added to order")
		return &Reply{
			Type:         TypeOrderUpdate,
			Title:        "Order Updated",
			Text:         fmt.Sprintf("Added %s to your order.", item.Name),
			OrderSummary: o.Summary(),
			Options:      quickReplies(TypeOrderUpdate),
		}, nil
	}

	tag := ""
	if m, ok := e.matcher.Match(message, e.kb.Intents()); ok {
		tag = m.Intent.Tag
	}
	switch tag {
	case "checkout":
		o.Status = order.StatusPreparing
		if err := e.store.PutActiveOrder(ctx, o); err != nil {
			return nil, fmt.Errorf("save order: %w", err)
		}
		convo.Ordering = false
		metrics.RecordOrderTransition("checked_out")
		if e.tracker != nil {
			e.tracker.Schedule(o.ID)
		}
		return &Reply{
			Type:         TypeOrderCheckout,
			Title:        "Checkout",
			Text:         "Ready to checkout! Here's your order summary:",
			OrderSummary: o.Summary(),
			Options:      quickReplies(TypeOrderCheckout),
		}, nil

	case "cancel_order":
		if err := e.store.DeleteActiveOrder(ctx, convo.UserID); err != nil && !errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("cancel order: %w", err)
		}
		convo.Ordering = false
		metrics.RecordOrderTransition("cancelled")
		metrics.DecActiveOrders()
		return &Reply{
			Type:    TypeOrderCancel,
			Title:   "Order Cancelled",
			Text:    "Your order has been cancelled.",
			Options: quickReplies(TypeOrderCancel),
		}, nil

	case "view_order":
		return &Reply{
			Type:         TypeOrderView,
			Title:        "Order Summary",
			Text:         "Here's your current order:",
			OrderSummary: o.Summary(),
			Options:      quickReplies(TypeOrderView),
		}, nil

	case "menu":
		return &Reply{
			Type:    TypeMenu,
			Title:   "Menu",
			Text:    "Here's our menu:",
			Menu:    e.menu.Listing(),
			Options: quickReplies(TypeOrderPrompt),
		}, nil
	}

	return &Reply{
		Type:    TypeOrderPrompt,
		Title:   "Add to Order",
		Text:    "What would you like to add to your order? You can say the name of any menu item.",
		Options: quickReplies(TypeOrderPrompt),
	}, nil
}

func (e *Engine) intentReply(ctx context.Context, convo *conversation.Context, in intent.Intent) (*Reply, error) {
	switch in.Tag {
	case "greeting":
		text := pickResponse(in)
		if name, ok := convo.Preference("name"); ok {
			text = fmt.Sprintf("Welcome back, %s! %s", name, text)
		}
		return &Reply{Type: TypeIntro, Title: "Welcome!", Text: text, Options: e.options(in, TypeIntro)}, nil

	case "menu":
		return &Reply{
			Type:    TypeMenu,
			Title:   "Menu",
			Text:    "Here's our menu:",
			Menu:    e.menu.Listing(),
			Options: e.options(in, TypeMenu),
		}, nil

	case "order", "start_order":
		o := order.New(e.ids.NewID(), convo.UserID, e.now())
		if err := e.store.PutActiveOrder(ctx, o); err != nil {
			return nil, fmt.Errorf("save order: %w", err)
		}
		convo.Ordering = true
		metrics.RecordOrderTransition("started")
		metrics.IncActiveOrders()
		return &Reply{
			Type:    TypeOrderStart,
			Title:   "Start Order",
			Text:    "Great! Let's start your order. What would you like to add?",
			Options: e.options(in, TypeOrderStart),
		}, nil

	case "view_order":
		o, err := e.store.ActiveOrder(ctx, convo.UserID)
		if errors.Is(err, session.ErrNotFound) {
			return &Reply{
				Type:    TypeText,
				Title:   "Order Summary",
				Text:    "You don't have an order in progress. Say \"order\" to start one!",
				Options: quickReplies(TypeIntro),
			}, nil
		} else if err != nil {
			return nil, fmt.Errorf("load order: %w", err)
		}
		return &Reply{
			Type:         TypeOrderView,
			Title:        "Order Summary",
			Text:         "Here's your current order:",
			OrderSummary: o.Summary(),
			Options:      e.options(in, TypeOrderView),
		}, nil

	case "recommendations":
		recs := recommendFor(e.now())
		return &Reply{
			Type:    TypeRecommendation,
			Title:   "Recommendations",
			Text:    fmt.Sprintf("Based on the time of day, here are some suggestions: %s", strings.Join(recs, ", ")),
			Options: recs,
		}, nil

	case "location":
		return &Reply{
			Type:    TypeLocation,
			Title:   "Location",
			Text:    pickResponse(in),
			Links:   e.storeLinks(),
			Options: e.options(in, TypeLocation),
		}, nil

	case "contact":
		return &Reply{
			Type:    TypeContact,
			Title:   "Contact Us",
			Text:    pickResponse(in),
			Links:   e.storeLinks(),
			Options: e.options(in, TypeContact),
		}, nil

	case "hours":
		return &Reply{Type: TypeHours, Title: "Hours", Text: pickResponse(in), Options: e.options(in, TypeHours)}, nil
	case "events":
		return &Reply{Type: TypeEvents, Title: "Upcoming Events", Text: pickResponse(in), Options: e.options(in, TypeEvents)}, nil
	case "parking":
		return &Reply{Type: TypeParking, Title: "Parking Information", Text: pickResponse(in), Options: e.options(in, TypeParking)}, nil
	case "reservation":
		return &Reply{Type: TypeReservation, Title: "Reservation Info", Text: pickResponse(in), Options: e.options(in, TypeReservation)}, nil
	case "signature_drinks":
		return &Reply{Type: TypeSignature, Title: "Signature Drinks", Text: pickResponse(in), Options: e.options(in, TypeSignature)}, nil

	default:
		return &Reply{
			Type:    TypeText,
			Title:   titleFor(in.Tag),
			Text:    pickResponse(in),
			Options: e.options(in, TypeText),
		}, nil
	}
}

func (e *Engine) menuItemReply(item menu.Item) *Reply {
	var b strings.Builder
	if item.Description != "" {
		b.WriteString(item.Description)
		b.WriteString("\n\n")
	}
	if len(item.Sizes) > 0 {
		var parts []string
		for _, sp := range item.Sizes {
			parts = append(parts, fmt.Sprintf("%s: $%s", sp.Size, sp.Price.StringFixed(2)))
		}
		fmt.Fprintf(&b, "Price: %s", strings.Join(parts, ", "))
	} else {
		fmt.Fprintf(&b, "Price: $%s", item.UnitPrice().StringFixed(2))
	}
	if groups := menu.CustomizationGroups(item); len(groups) > 0 {
		fmt.Fprintf(&b, "\n\nCustomizations: %s", strings.Join(groups, ", "))
	}
	if len(item.Pairings) > 0 {
		fmt.Fprintf(&b, "\n\nPopular Pairings: %s", strings.Join(item.Pairings, ", "))
	}

	options := item.Suggestions
	if len(options) == 0 {
		options = []string{"Add to Order", "Show Menu", "Order Something Else"}
	}
	return &Reply{Type: TypeMenuItem, Title: item.Name, Text: b.String(), Options: options}
}

func (e *Engine) llmReply(ctx context.Context, convo *conversation.Context, message string) (*Reply, string, error) {
	text, err := e.llm.Generate(ctx, message, convo.History)
	if err != nil {
		if !errors.Is(err, llm.ErrDisabled) {
			chatLog := log.WithComponentFromContext(ctx, "chat")
			chatLog.Warn().Err(err).Msg("llm fallback failed")
		}
		return &Reply{
			Type:    TypeText,
			Title:   "Hazel",
			Text:    apologyText,
			Options: quickReplies(TypeIntro),
		}, "apology", nil
	}
	return &Reply{Type: TypeLLM, Title: "Hazel", Text: text, Options: quickReplies(TypeLLM)}, "llm", nil
}

func (e *Engine) storeLinks() []Link {
	info := e.kb.Store()
	if len(info.Links) == 0 {
		return nil
	}
	labels := make([]string, 0, len(info.Links))
	for label := range info.Links {
		labels = append(labels, label)
	}
	// map order is random; sort for stable rendering
	sort.Strings(labels)
	links := make([]Link, 0, len(labels))
	for _, label := range labels {
		links = append(links, Link{Label: label, URL: info.Links[label]})
	}
	return links
}

func pickResponse(in intent.Intent) string {
	return in.Responses[rand.IntN(len(in.Responses))]
}

func (e *Engine) options(in intent.Intent, t ReplyType) []string {
	if len(in.Suggestions) > 0 {
		return in.Suggestions
	}
	return quickReplies(t)
}

func titleFor(tag string) string {
	if tag == "" {
		return ""
	}
	return strings.ToUpper(tag[:1]) + strings.ReplaceAll(tag[1:], "_", " ")
}
