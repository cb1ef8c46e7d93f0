package automation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/robfig/cron/v3"
)

// kind describes one trigger or action type: how to check its config and
// how to describe it to a person.
type kind struct {
	label    string
	validate func(cfg Config) []string
	describe func(cfg Config, names columnNames) string
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func requireKey(cfg Config, key, msg string) []string {
	if !cfg.Has(key) {
		return []string{msg}
	}
	return nil
}

func none(Config) []string { return nil }

func fixed(text string) func(Config, columnNames) string {
	return func(Config, columnNames) string { return text }
}

var triggers = map[string]kind{
	types.TriggerItemCreated: {label: "Item created", validate: none, describe: fixed("When an item is created")},
	types.TriggerItemUpdated: {label: "Item updated", validate: none, describe: fixed("When an item is updated")},
	types.TriggerItemDeleted: {label: "Item deleted", validate: none, describe: fixed("When an item is deleted")},
	types.TriggerItemMoved: {
		label:    "Item moved",
		validate: none,
		describe: func(cfg Config, _ columnNames) string {
			if g := cfg.String("toGroup"); g != "" {
				return fmt.Sprintf("When an item is moved to %q", g)
			}
			return "When an item is moved"
		},
	},
	types.TriggerStatusChanged: {
		label: "Status changed",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "columnId", "Status change trigger requires a status column")
		},
		describe: func(cfg Config, names columnNames) string {
			if to := cfg.String("toStatus"); to != "" {
				return fmt.Sprintf("When %s changes to %q", names.name(cfg.String("columnId")), to)
			}
			return fmt.Sprintf("When %s changes", names.name(cfg.String("columnId")))
		},
	},
	types.TriggerFieldChanged: {
		label: "Field changed",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "columnId", "Field change trigger requires a column")
		},
		describe: func(cfg Config, names columnNames) string {
			return fmt.Sprintf("When %s changes", names.name(cfg.String("columnId")))
		},
	},
	types.TriggerFieldMatches: {
		label: "Field value matches",
		validate: func(cfg Config) []string {
			errs := requireKey(cfg, "columnId", "Field value trigger requires a column")
			op := cfg.String("operator")
			switch {
			case op == "":
				errs = append(errs, "Field value trigger requires an operator")
			case !types.IsValidOperator(op):
				errs = append(errs, fmt.Sprintf("Field value trigger has an unknown operator %q", op))
			case op != types.OpIsEmpty && op != types.OpIsNotEmpty && !cfg.Has("value"):
				errs = append(errs, "Field value trigger requires a value")
			}
			return errs
		},
		describe: func(cfg Config, names columnNames) string {
			return fmt.Sprintf("When %s %s %s", names.name(cfg.String("columnId")), cfg.String("operator"), describeValue(cfg["value"]))
		},
	},
	types.TriggerDateApproaching: {
		label: "Date approaching",
		validate: func(cfg Config) []string {
			var errs []string
			if days, ok := cfg.Int("daysBefore"); !ok || days <= 0 {
				errs = append(errs, "Date approaching trigger requires days before value")
			}
			return append(errs, requireKey(cfg, "columnId", "Date approaching trigger requires a date column")...)
		},
		describe: func(cfg Config, names columnNames) string {
			days, _ := cfg.Int("daysBefore")
			return fmt.Sprintf("When %s is %d day(s) away", names.name(cfg.String("columnId")), days)
		},
	},
	types.TriggerDateArrived: {
		label: "Date arrived",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "columnId", "Date arrived trigger requires a date column")
		},
		describe: func(cfg Config, names columnNames) string {
			return fmt.Sprintf("When %s arrives", names.name(cfg.String("columnId")))
		},
	},
	types.TriggerDatePassed: {
		label: "Date passed",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "columnId", "Date passed trigger requires a date column")
		},
		describe: func(cfg Config, names columnNames) string {
			return fmt.Sprintf("When %s has passed", names.name(cfg.String("columnId")))
		},
	},
	types.TriggerDateRange: {
		label: "Date range",
		validate: func(cfg Config) []string {
			start, okStart := columns.ParseDate(cfg.String("startDate"))
			end, okEnd := columns.ParseDate(cfg.String("endDate"))
			if !okStart || !okEnd {
				return []string{"Date range trigger requires start and end dates"}
			}
			if end.Before(start) {
				return []string{"Date range trigger end date must be on or after the start date"}
			}
			return nil
		},
		describe: func(cfg Config, _ columnNames) string {
			return fmt.Sprintf("Between %s and %s", cfg.String("startDate"), cfg.String("endDate"))
		},
	},
	types.TriggerRecurring: {
		label: "Recurring schedule",
		validate: func(cfg Config) []string {
			expr := cfg.String("cron")
			if expr == "" {
				return []string{"Recurring schedule trigger requires a cron expression"}
			}
			if _, err := scheduleParser.Parse(expr); err != nil {
				return []string{fmt.Sprintf("Recurring schedule has an invalid cron expression: %v", err)}
			}
			return nil
		},
		describe: func(cfg Config, _ columnNames) string {
			return fmt.Sprintf("On schedule %q", cfg.String("cron"))
		},
	},
	types.TriggerPersonAssigned: {
		label: "Person assigned",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "columnId", "Person assigned trigger requires a people column")
		},
		describe: func(cfg Config, names columnNames) string {
			return fmt.Sprintf("When someone is assigned in %s", names.name(cfg.String("columnId")))
		},
	},
	types.TriggerCommentAdded:      {label: "Comment added", validate: none, describe: fixed("When a comment is added")},
	types.TriggerFileUploaded:      {label: "File uploaded", validate: none, describe: fixed("When a file is uploaded")},
	types.TriggerFormSubmitted:     {label: "Form submitted", validate: none, describe: fixed("When the board form is submitted")},
	types.TriggerApprovalRequested: {label: "Approval requested", validate: none, describe: fixed("When approval is requested")},
	types.TriggerApprovalApproved:  {label: "Approval approved", validate: none, describe: fixed("When a request is approved")},
	types.TriggerApprovalRejected:  {label: "Approval rejected", validate: none, describe: fixed("When a request is rejected")},
}

var httpMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var actions = map[string]kind{
	types.ActionChangeStatus: {
		label: "Change status",
		validate: func(cfg Config) []string {
			errs := requireKey(cfg, "columnId", "Change status action requires a status column")
			return append(errs, requireKey(cfg, "status", "Change status action requires a target status")...)
		},
		describe: func(cfg Config, names columnNames) string {
			return fmt.Sprintf("Change %s to %q", names.name(cfg.String("columnId")), cfg.String("status"))
		},
	},
	types.ActionUpdateField: {
		label: "Update field",
		validate: func(cfg Config) []string {
			errs := requireKey(cfg, "columnId", "Update field action requires a column")
			return append(errs, requireKey(cfg, "value", "Update field action requires a value")...)
		},
		describe: func(cfg Config, names columnNames) string {
			return fmt.Sprintf("Set %s to %s", names.name(cfg.String("columnId")), describeValue(cfg["value"]))
		},
	},
	types.ActionClearField: {
		label: "Clear field",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "columnId", "Clear field action requires a column")
		},
		describe: func(cfg Config, names columnNames) string {
			return fmt.Sprintf("Clear %s", names.name(cfg.String("columnId")))
		},
	},
	types.ActionAssignPerson: {
		label: "Assign person",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "userId", "Assign person action requires a person")
		},
		describe: func(cfg Config, names columnNames) string {
			return fmt.Sprintf("Assign %s in %s", cfg.String("userId"), names.name(cfg.String("columnId")))
		},
	},
	types.ActionUnassignPerson: {
		label: "Unassign person",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "userId", "Unassign person action requires a person")
		},
		describe: func(cfg Config, names columnNames) string {
			return fmt.Sprintf("Unassign %s from %s", cfg.String("userId"), names.name(cfg.String("columnId")))
		},
	},
	types.ActionSendNotification: {
		label: "Send notification",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "message", "Send notification action requires a message")
		},
		describe: func(cfg Config, _ columnNames) string {
			if to := cfg.Strings("recipients"); len(to) > 0 {
				return fmt.Sprintf("Notify %s: %q", strings.Join(to, ", "), cfg.String("message"))
			}
			return fmt.Sprintf("Notify subscribers: %q", cfg.String("message"))
		},
	},
	types.ActionSendEmail: {
		label: "Send email",
		validate: func(cfg Config) []string {
			errs := requireKey(cfg, "to", "Send email action requires a recipient")
			return append(errs, requireKey(cfg, "subject", "Send email action requires a subject")...)
		},
		describe: func(cfg Config, _ columnNames) string {
			return fmt.Sprintf("Email %s with subject %q", strings.Join(cfg.Strings("to"), ", "), cfg.String("subject"))
		},
	},
	types.ActionCreateItem: {
		label: "Create item",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "name", "Create item action requires an item name")
		},
		describe: func(cfg Config, _ columnNames) string {
			if board := cfg.String("boardId"); board != "" {
				return fmt.Sprintf("Create item %q on board %s", cfg.String("name"), board)
			}
			return fmt.Sprintf("Create item %q", cfg.String("name"))
		},
	},
	types.ActionDuplicateItem: {label: "Duplicate item", validate: none, describe: fixed("Duplicate the item")},
	types.ActionMoveItem: {
		label: "Move item",
		validate: func(cfg Config) []string {
			if !cfg.Has("boardId") && !cfg.Has("group") {
				return []string{"Move item action requires a target board or group"}
			}
			return nil
		},
		describe: func(cfg Config, _ columnNames) string {
			if g := cfg.String("group"); g != "" {
				return fmt.Sprintf("Move the item to group %q", g)
			}
			return fmt.Sprintf("Move the item to board %s", cfg.String("boardId"))
		},
	},
	types.ActionArchiveItem: {label: "Archive item", validate: none, describe: fixed("Archive the item")},
	types.ActionDeleteItem:  {label: "Delete item", validate: none, describe: fixed("Delete the item")},
	types.ActionCreateSubitem: {
		label: "Create subitem",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "name", "Create subitem action requires a subitem name")
		},
		describe: func(cfg Config, _ columnNames) string {
			return fmt.Sprintf("Create subitem %q", cfg.String("name"))
		},
	},
	types.ActionAddComment: {
		label: "Add comment",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "text", "Add comment action requires comment text")
		},
		describe: func(cfg Config, _ columnNames) string {
			return fmt.Sprintf("Comment %q", cfg.String("text"))
		},
	},
	types.ActionWebhook: {
		label: "Webhook",
		validate: func(cfg Config) []string {
			raw := cfg.String("url")
			if raw == "" {
				return []string{"Webhook action requires a URL"}
			}
			if !validURL(raw) {
				return []string{"Webhook action requires a valid http(s) URL"}
			}
			return nil
		},
		describe: func(cfg Config, _ columnNames) string {
			return fmt.Sprintf("POST item data to %s", cfg.String("url"))
		},
	},
	types.ActionAPICall: {
		label: "API call",
		validate: func(cfg Config) []string {
			var errs []string
			raw := cfg.String("url")
			switch {
			case raw == "":
				errs = append(errs, "API call action requires a URL")
			case !validURL(raw):
				errs = append(errs, "API call action requires a valid http(s) URL")
			}
			if m := strings.ToUpper(cfg.String("method")); m != "" && !contains(httpMethods, m) {
				errs = append(errs, fmt.Sprintf("API call action has an unsupported method %q", m))
			}
			return errs
		},
		describe: func(cfg Config, _ columnNames) string {
			method := strings.ToUpper(cfg.String("method"))
			if method == "" {
				method = "GET"
			}
			return fmt.Sprintf("%s %s", method, cfg.String("url"))
		},
	},
	types.ActionSyncExternal: {
		label: "Sync external system",
		validate: func(cfg Config) []string {
			return requireKey(cfg, "provider", "Sync action requires an external system")
		},
		describe: func(cfg Config, _ columnNames) string {
			return fmt.Sprintf("Sync the item with %s", cfg.String("provider"))
		},
	},
}

func describeValue(v any) string {
	if columns.IsEmptyValue(v) {
		return "empty"
	}
	return fmt.Sprintf("%q", columns.AsString(v))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// TriggerLabel returns the display label of a trigger kind.
func TriggerLabel(t string) string {
	if k, ok := triggers[t]; ok {
		return k.label
	}
	return t
}

// ActionLabel returns the display label of an action kind.
func ActionLabel(t string) string {
	if k, ok := actions[t]; ok {
		return k.label
	}
	return t
}
