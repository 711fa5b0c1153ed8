package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/srcwatch/pkg/logger"
)

// Builder turns raw metadata into a Taxonomy.
type Builder struct {
	toggleNames map[string]struct{}
	logger      logger.Logger
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithToggleNames sets the variable names that separate leaderboards even
// without the subcategory flag (case-insensitive). Defaults to "amiibo".
func WithToggleNames(names []string) Option {
	return func(b *Builder) {
		if len(names) == 0 {
			return
		}
		b.toggleNames = make(map[string]struct{}, len(names))
		for _, n := range names {
			b.toggleNames[strings.ToLower(n)] = struct{}{}
		}
	}
}

// WithLogger sets a custom logger for the builder.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder with default configuration.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		toggleNames: map[string]struct{}{"amiibo": {}},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build constructs the taxonomy from raw metadata.
//
// Only separating variables are retained: those flagged as subcategories or
// whose name matches a configured toggle. A variable whose owning category
// does not exist is dropped for that assignment; metadata inconsistency is
// tolerated, not fatal.
func (b *Builder) Build(ctx context.Context, meta Metadata) (*Taxonomy, error) {
	if meta.GameID == "" {
		return nil, fmt.Errorf("%w: missing game id", ErrInvalidMetadata)
	}

	t := &Taxonomy{
		GameID:           meta.GameID,
		GameName:         meta.GameName,
		Abbreviation:     meta.Abbreviation,
		Categories:       make(map[string]*Node),
		Levels:           make(map[string]*Level),
		FullGameVariants: NewVariantSet(),
		LevelVariants:    NewVariantSet(),
	}

	var levelTemplates []*Node
	for _, cat := range meta.Categories {
		if cat.PerLevel {
			levelTemplates = append(levelTemplates, newNode(cat.ID, cat.Name))
			continue
		}
		t.Categories[cat.ID] = newNode(cat.ID, cat.Name)
	}

	// Every level gets its own copy of each per-level category template.
	for _, lvl := range meta.Levels {
		cats := make(map[string]*Node, len(levelTemplates))
		for _, tpl := range levelTemplates {
			cats[tpl.ID] = tpl.clone()
		}
		t.Levels[lvl.ID] = &Level{ID: lvl.ID, Name: lvl.Name, Categories: cats}
	}

	for i := range meta.Variables {
		b.place(ctx, t, &meta.Variables[i])
	}
	return t, nil
}

// separating reports whether the variable splits leaderboards.
func (b *Builder) separating(vm *VariableMeta) bool {
	if vm.Subcategory {
		return true
	}
	_, ok := b.toggleNames[strings.ToLower(vm.Name)]
	return ok
}

// place resolves one variable's scope rule and attaches it to the matching
// nodes or wide pools.
func (b *Builder) place(ctx context.Context, t *Taxonomy, vm *VariableMeta) {
	if !b.separating(vm) {
		return
	}
	v := &Variant{ID: vm.ID, Name: vm.Name, Values: vm.Values}

	switch vm.Scope {
	case ScopeGlobal, ScopeFullGame:
		if vm.CategoryID == "" {
			t.FullGameVariants.Add(v)
			return
		}
		if cat, ok := t.Categories[vm.CategoryID]; ok {
			cat.Variants.Add(v)
		} else {
			b.dropped(ctx, vm)
		}
	case ScopeAllLevels:
		if vm.CategoryID == "" {
			t.LevelVariants.Add(v)
			return
		}
		placed := false
		for _, lvl := range t.Levels {
			if cat, ok := lvl.Categories[vm.CategoryID]; ok {
				cat.Variants.Add(v)
				placed = true
			}
		}
		if !placed {
			b.dropped(ctx, vm)
		}
	case ScopeSingleLevel:
		lvl, ok := t.Levels[vm.ScopeLevelID]
		if !ok {
			b.dropped(ctx, vm)
			return
		}
		if vm.CategoryID == "" {
			for _, cat := range lvl.Categories {
				cat.Variants.Add(v)
			}
			return
		}
		if cat, ok := lvl.Categories[vm.CategoryID]; ok {
			cat.Variants.Add(v)
		} else {
			b.dropped(ctx, vm)
		}
	default:
		b.dropped(ctx, vm)
	}
}

func (b *Builder) dropped(ctx context.Context, vm *VariableMeta) {
	if b.logger == nil {
		return
	}
	b.logger.Debug(ctx, "dropping variable assignment",
		logger.String("variable", vm.ID),
		logger.String("scope", string(vm.Scope)),
		logger.String("category", vm.CategoryID),
	)
}
