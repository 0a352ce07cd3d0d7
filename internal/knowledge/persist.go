// SPDX-License-Identifier: MIT

package knowledge

import (
	"fmt"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Persist writes the current base back to disk atomically, so a crash
// mid-write never leaves a truncated knowledge file behind.
func (b *Base) Persist(path string) error {
	doc := b.snapshot()
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode knowledge: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write knowledge file: %w", err)
	}
	return nil
}
