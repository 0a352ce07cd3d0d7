// SPDX-License-Identifier: MIT

// Package knowledge holds the trainable knowledge base: intents, FAQs,
// and store information, loaded from YAML and mutable at runtime.
package knowledge

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hazelbot/hazel/internal/intent"
	"github.com/hazelbot/hazel/internal/textutil"
)

// FAQ is one question/answer pair within a category.
type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// StoreInfo describes the café itself.
type StoreInfo struct {
	Name     string            `yaml:"name" json:"name"`
	Location string            `yaml:"location" json:"location"`
	Hours    map[string]string `yaml:"hours" json:"hours"`
	Contact  map[string]string `yaml:"contact" json:"contact"`
	Links    map[string]string `yaml:"links" json:"links"`
}

// Base is the live knowledge base. Reads take the read lock; Train,
// Forget and Replace take the write lock and hand out copies, so callers
// never share slices with the base.
type Base struct {
	mu      sync.RWMutex
	intents []intent.Intent
	faqs    map[string][]FAQ
	store   StoreInfo
}

type document struct {
	Intents []intent.Intent  `yaml:"intents"`
	FAQs    map[string][]FAQ `yaml:"faqs"`
	Store   StoreInfo        `yaml:"store"`
}

// Parse decodes a YAML knowledge document into a fresh base.
func Parse(data []byte) (*Base, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode knowledge: %w", err)
	}
	if len(doc.Intents) == 0 {
		return nil, fmt.Errorf("knowledge has no intents")
	}
	seen := make(map[string]bool, len(doc.Intents))
	for _, in := range doc.Intents {
		if in.Tag == "" {
			return nil, fmt.Errorf("intent with empty tag")
		}
		if seen[in.Tag] {
			return nil, fmt.Errorf("duplicate intent tag %q", in.Tag)
		}
		seen[in.Tag] = true
		if len(in.Patterns) == 0 {
			return nil, fmt.Errorf("intent %q has no patterns", in.Tag)
		}
		if len(in.Responses) == 0 {
			return nil, fmt.Errorf("intent %q has no responses", in.Tag)
		}
	}
	return &Base{intents: doc.Intents, faqs: doc.FAQs, store: doc.Store}, nil
}

// Load reads and parses a knowledge YAML file.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	return Parse(data)
}

// Intents returns a copy of the current intent list.
func (b *Base) Intents() []intent.Intent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]intent.Intent, len(b.intents))
	copy(out, b.intents)
	return out
}

// Intent returns the intent with the given tag.
func (b *Base) Intent(tag string) (intent.Intent, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, in := range b.intents {
		if in.Tag == tag {
			return in, true
		}
	}
	return intent.Intent{}, false
}

// Store returns the café's store information.
func (b *Base) Store() StoreInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.store
}

// FAQAnswer scans all FAQ questions for one contained in the message
// (or containing it) and returns its answer.
func (b *Base) FAQAnswer(message string) (FAQ, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	folded := textutil.Fold(message)
	if folded == "" {
		return FAQ{}, false
	}
	cats := make([]string, 0, len(b.faqs))
	for c := range b.faqs {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		for _, f := range b.faqs[c] {
			fq := textutil.Fold(f.Question)
			if textutil.Contains(folded, fq) || textutil.Contains(fq, folded) {
				return f, true
			}
		}
	}
	return FAQ{}, false
}

// Train upserts an intent by tag: existing tags are replaced in place,
// new tags appended. It reports whether the tag already existed.
func (b *Base) Train(in intent.Intent) (bool, error) {
	if in.Tag == "" {
		return false, fmt.Errorf("intent tag is required")
	}
	if len(in.Patterns) == 0 {
		return false, fmt.Errorf("intent %q needs at least one pattern", in.Tag)
	}
	if len(in.Responses) == 0 {
		return false, fmt.Errorf("intent %q needs at least one response", in.Tag)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.intents {
		if existing.Tag == in.Tag {
			b.intents[i] = in
			return true, nil
		}
	}
	b.intents = append(b.intents, in)
	return false, nil
}

// Forget removes the intent with the given tag.
func (b *Base) Forget(tag string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, in := range b.intents {
		if in.Tag == tag {
			b.intents = append(b.intents[:i], b.intents[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps in a freshly loaded base, used by the file watcher.
func (b *Base) Replace(next *Base) {
	next.mu.RLock()
	intents := make([]intent.Intent, len(next.intents))
	copy(intents, next.intents)
	faqs := next.faqs
	store := next.store
	next.mu.RUnlock()

	b.mu.Lock()
	b.intents = intents
	b.faqs = faqs
	b.store = store
	b.mu.Unlock()
}

func (b *Base) snapshot() document {
	b.mu.RLock()
	defer b.mu.RUnlock()
	intents := make([]intent.Intent, len(b.intents))
	copy(intents, b.intents)
	return document{Intents: intents, FAQs: b.faqs, Store: b.store}
}
