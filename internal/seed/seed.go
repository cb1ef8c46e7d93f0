// internal/seed/seed.go
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"

	"github.com/Marga-Ghale/ora-boards-backend/internal/automation"
	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/forms"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"gopkg.in/yaml.v3"
)

// DemoOwnerID owns the seeded board.
const DemoOwnerID = "demo-user"

//go:embed demo_board.yaml
var demoBoard []byte

// Fixture describes a board by column names; ids are resolved while seeding.
type Fixture struct {
	Board struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		FormPublic  bool   `yaml:"formPublic"`
		FormTitle   string `yaml:"formTitle"`
	} `yaml:"board"`
	Columns     []ColumnFixture     `yaml:"columns"`
	Items       []ItemFixture       `yaml:"items"`
	Views       []ViewFixture       `yaml:"views"`
	Automations []AutomationFixture `yaml:"automations"`
}

type RuleFixture struct {
	Field    string `yaml:"field"`
	Operator string `yaml:"operator"`
	Value    any    `yaml:"value"`
}

type ColumnFixture struct {
	Name         string         `yaml:"name"`
	Type         string         `yaml:"type"`
	Description  string         `yaml:"description"`
	Required     bool           `yaml:"required"`
	Hidden       bool           `yaml:"hidden"`
	DefaultValue any            `yaml:"defaultValue"`
	Settings     map[string]any `yaml:"settings"`
	ShowWhen     []RuleFixture  `yaml:"showWhen"`
	HideWhen     []RuleFixture  `yaml:"hideWhen"`
	RequiredWhen []RuleFixture  `yaml:"requiredWhen"`
}

type ItemFixture struct {
	Name  string         `yaml:"name"`
	Cells map[string]any `yaml:"cells"`
}

type ViewFixture struct {
	Name      string                  `yaml:"name"`
	Type      string                  `yaml:"type"`
	IsDefault bool                    `yaml:"isDefault"`
	Settings  repository.ViewSettings `yaml:"settings"`
}

type AutomationFixture struct {
	Name    string `yaml:"name"`
	Trigger struct {
		Type   string         `yaml:"type"`
		Config map[string]any `yaml:"config"`
	} `yaml:"trigger"`
	Conditions *struct {
		Type       string        `yaml:"type"`
		Conditions []RuleFixture `yaml:"conditions"`
	} `yaml:"conditions"`
	Actions []struct {
		Type   string         `yaml:"type"`
		Config map[string]any `yaml:"config"`
	} `yaml:"actions"`
}

// Load reads a fixture from path, or the embedded demo board when path is
// empty.
func Load(path string) (*Fixture, error) {
	raw := demoBoard
	if path != "" {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// SeedData creates the fixture's board for DemoOwnerID through the services,
// so seeded items pass the same validation as API writes. It does nothing
// when the demo owner already has a board.
func SeedData(ctx context.Context, services *service.Services, f *Fixture) (*repository.Board, error) {
	existing, err := services.Board.List(ctx, DemoOwnerID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		log.Println("[Seed] Data already exists, skipping...")
		return existing[0], nil
	}

	log.Printf("[Seed] 🌱 Creating demo board %q...", f.Board.Name)

	var description *string
	if f.Board.Description != "" {
		description = &f.Board.Description
	}
	board, err := services.Board.Create(ctx, DemoOwnerID, f.Board.Name, description)
	if err != nil {
		return nil, err
	}

	ids := map[string]string{}
	for _, cf := range f.Columns {
		col, err := services.Column.Create(ctx, board.ID, DemoOwnerID, columnValues(cf, ids))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", cf.Name, err)
		}
		ids[cf.Name] = col.ID
	}

	for _, it := range f.Items {
		cells := make(map[string]any, len(it.Cells))
		for name, v := range it.Cells {
			if id, ok := ids[name]; ok {
				cells[id] = v
			}
		}
		if _, err := services.Item.Create(ctx, board.ID, DemoOwnerID, service.ItemInput{Name: it.Name, Cells: cells}); err != nil {
			return nil, fmt.Errorf("item %q: %w", it.Name, err)
		}
	}

	for _, vf := range f.Views {
		settings := vf.Settings
		settings.SortBy = resolve(ids, settings.SortBy)
		settings.GroupBy = resolve(ids, settings.GroupBy)
		for i := range settings.Filters {
			settings.Filters[i].ColumnID = resolve(ids, settings.Filters[i].ColumnID)
		}
		if _, err := services.View.Create(ctx, board.ID, DemoOwnerID, service.ViewInput{
			Name:      vf.Name,
			Type:      vf.Type,
			Settings:  settings,
			IsDefault: vf.IsDefault,
		}); err != nil {
			return nil, fmt.Errorf("view %q: %w", vf.Name, err)
		}
	}

	for _, af := range f.Automations {
		if _, err := services.Automation.Create(ctx, board.ID, DemoOwnerID, automationFrom(af, ids)); err != nil {
			return nil, fmt.Errorf("automation %q: %w", af.Name, err)
		}
	}

	if f.Board.FormPublic || f.Board.FormTitle != "" {
		upd := service.BoardUpdate{FormPublic: &f.Board.FormPublic}
		if f.Board.FormTitle != "" {
			upd.FormTitle = &f.Board.FormTitle
		}
		if board, err = services.Board.Update(ctx, board.ID, DemoOwnerID, upd); err != nil {
			return nil, err
		}
	}

	log.Printf("[Seed] ✅ Demo board %s: %d columns, %d items, %d views, %d automations",
		board.ID, len(f.Columns), len(f.Items), len(f.Views), len(f.Automations))
	return board, nil
}

func resolve(ids map[string]string, name string) string {
	if id, ok := ids[name]; ok {
		return id
	}
	return name
}

func rules(in []RuleFixture, ids map[string]string) []columns.Rule {
	out := make([]columns.Rule, 0, len(in))
	for _, r := range in {
		out = append(out, columns.Rule{FieldID: resolve(ids, r.Field), Operator: r.Operator, Value: r.Value})
	}
	return out
}

func columnValues(cf ColumnFixture, ids map[string]string) forms.ColumnFormValues {
	v := forms.DefaultsForType(types.ColumnType(cf.Type))
	v.Name = cf.Name
	v.Description = cf.Description
	v.Required = cf.Required
	v.IsHidden = cf.Hidden
	v.DefaultValue = cf.DefaultValue
	for k, val := range cf.Settings {
		v.Settings[k] = val
	}
	if len(cf.ShowWhen)+len(cf.HideWhen)+len(cf.RequiredWhen) > 0 {
		v.Conditional = &columns.Conditional{
			ShowWhen:     rules(cf.ShowWhen, ids),
			HideWhen:     rules(cf.HideWhen, ids),
			RequiredWhen: rules(cf.RequiredWhen, ids),
		}
	}
	return v
}

func automationFrom(af AutomationFixture, ids map[string]string) *automation.Automation {
	a := &automation.Automation{
		Name:     af.Name,
		Trigger:  automation.Trigger{Type: af.Trigger.Type, Config: af.Trigger.Config},
		IsActive: true,
	}
	for _, act := range af.Actions {
		a.Actions = append(a.Actions, automation.Action{Type: act.Type, Config: act.Config})
	}
	if af.Conditions != nil {
		g := &automation.ConditionGroup{Type: af.Conditions.Type}
		for _, r := range af.Conditions.Conditions {
			g.Conditions = append(g.Conditions, automation.Condition{
				Field:    resolve(ids, r.Field),
				Operator: r.Operator,
				Value:    r.Value,
			})
		}
		a.Conditions = g
	}
	return a
}
