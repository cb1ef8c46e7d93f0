package types

// ColumnType identifies how a board column stores and edits its cells.
type ColumnType string

// Column types
const (
	ColumnText        ColumnType = "TEXT"
	ColumnLongText    ColumnType = "LONG_TEXT"
	ColumnNumber      ColumnType = "NUMBER"
	ColumnCurrency    ColumnType = "CURRENCY"
	ColumnPercentage  ColumnType = "PERCENTAGE"
	ColumnRating      ColumnType = "RATING"
	ColumnStatus      ColumnType = "STATUS"
	ColumnDropdown    ColumnType = "DROPDOWN"
	ColumnMultiSelect ColumnType = "MULTI_SELECT"
	ColumnTags        ColumnType = "TAGS"
	ColumnCheckbox    ColumnType = "CHECKBOX"
	ColumnDate        ColumnType = "DATE"
	ColumnDateTime    ColumnType = "DATETIME"
	ColumnTimeline    ColumnType = "TIMELINE"
	ColumnWeek        ColumnType = "WEEK"
	ColumnPeople      ColumnType = "PEOPLE"
	ColumnEmail       ColumnType = "EMAIL"
	ColumnPhone       ColumnType = "PHONE"
	ColumnLink        ColumnType = "LINK"
	ColumnFile        ColumnType = "FILE"
	ColumnLocation    ColumnType = "LOCATION"
	ColumnFormula     ColumnType = "FORMULA"
	ColumnMirror      ColumnType = "MIRROR"
	ColumnAutoNumber  ColumnType = "AUTO_NUMBER"
	ColumnProgress    ColumnType = "PROGRESS"
	ColumnCreatedAt   ColumnType = "CREATED_AT"
	ColumnUpdatedAt   ColumnType = "UPDATED_AT"
)

// AllColumnTypes lists every column type in display order.
var AllColumnTypes = []ColumnType{
	ColumnText, ColumnLongText, ColumnNumber, ColumnCurrency, ColumnPercentage,
	ColumnRating, ColumnStatus, ColumnDropdown, ColumnMultiSelect, ColumnTags,
	ColumnCheckbox, ColumnDate, ColumnDateTime, ColumnTimeline, ColumnWeek,
	ColumnPeople, ColumnEmail, ColumnPhone, ColumnLink, ColumnFile,
	ColumnLocation, ColumnFormula, ColumnMirror, ColumnAutoNumber,
	ColumnProgress, ColumnCreatedAt, ColumnUpdatedAt,
}

func IsValidColumnType(t string) bool {
	for _, ct := range AllColumnTypes {
		if string(ct) == t {
			return true
		}
	}
	return false
}

// ViewType values
const (
	ViewTable    = "TABLE"
	ViewKanban   = "KANBAN"
	ViewCalendar = "CALENDAR"
	ViewTimeline = "TIMELINE"
	ViewGallery  = "GALLERY"
	ViewForm     = "FORM"
	ViewChart    = "CHART"
)

var ValidViewTypes = []string{
	ViewTable, ViewKanban, ViewCalendar, ViewTimeline, ViewGallery, ViewForm, ViewChart,
}

// Item status values
const (
	ItemActive   = "active"
	ItemArchived = "archived"
)

// Rule operators shared by conditional fields and automation conditions
const (
	OpEquals      = "equals"
	OpNotEquals   = "notEquals"
	OpContains    = "contains"
	OpNotContains = "notContains"
	OpGreaterThan = "greaterThan"
	OpLessThan    = "lessThan"
	OpIsEmpty     = "isEmpty"
	OpIsNotEmpty  = "isNotEmpty"
)

var ValidOperators = []string{
	OpEquals, OpNotEquals, OpContains, OpNotContains,
	OpGreaterThan, OpLessThan, OpIsEmpty, OpIsNotEmpty,
}

// Automation trigger kinds
const (
	TriggerItemCreated       = "item_created"
	TriggerItemUpdated       = "item_updated"
	TriggerItemDeleted       = "item_deleted"
	TriggerItemMoved         = "item_moved"
	TriggerStatusChanged     = "status_changed"
	TriggerFieldChanged      = "field_changed"
	TriggerFieldMatches      = "field_value_matches"
	TriggerDateApproaching   = "date_approaching"
	TriggerDateArrived       = "date_arrived"
	TriggerDatePassed        = "date_passed"
	TriggerDateRange         = "date_range"
	TriggerRecurring         = "recurring_schedule"
	TriggerPersonAssigned    = "person_assigned"
	TriggerCommentAdded      = "comment_added"
	TriggerFileUploaded      = "file_uploaded"
	TriggerFormSubmitted     = "form_submitted"
	TriggerApprovalRequested = "approval_requested"
	TriggerApprovalApproved  = "approval_approved"
	TriggerApprovalRejected  = "approval_rejected"
)

var ValidTriggers = []string{
	TriggerItemCreated, TriggerItemUpdated, TriggerItemDeleted, TriggerItemMoved,
	TriggerStatusChanged, TriggerFieldChanged, TriggerFieldMatches,
	TriggerDateApproaching, TriggerDateArrived, TriggerDatePassed, TriggerDateRange,
	TriggerRecurring, TriggerPersonAssigned, TriggerCommentAdded, TriggerFileUploaded,
	TriggerFormSubmitted, TriggerApprovalRequested, TriggerApprovalApproved,
	TriggerApprovalRejected,
}

// Automation action kinds
const (
	ActionChangeStatus     = "change_status"
	ActionUpdateField      = "update_field"
	ActionClearField       = "clear_field"
	ActionAssignPerson     = "assign_person"
	ActionUnassignPerson   = "unassign_person"
	ActionSendNotification = "send_notification"
	ActionSendEmail        = "send_email"
	ActionCreateItem       = "create_item"
	ActionDuplicateItem    = "duplicate_item"
	ActionMoveItem         = "move_item"
	ActionArchiveItem      = "archive_item"
	ActionDeleteItem       = "delete_item"
	ActionCreateSubitem    = "create_subitem"
	ActionAddComment       = "add_comment"
	ActionWebhook          = "webhook"
	ActionAPICall          = "api_call"
	ActionSyncExternal     = "sync_external"
)

var ValidActions = []string{
	ActionChangeStatus, ActionUpdateField, ActionClearField, ActionAssignPerson,
	ActionUnassignPerson, ActionSendNotification, ActionSendEmail, ActionCreateItem,
	ActionDuplicateItem, ActionMoveItem, ActionArchiveItem, ActionDeleteItem,
	ActionCreateSubitem, ActionAddComment, ActionWebhook, ActionAPICall,
	ActionSyncExternal,
}

// Condition group joins
const (
	JoinAnd = "and"
	JoinOr  = "or"
)

// Helper functions for validation
func IsValidViewType(viewType string) bool {
	return contains(ValidViewTypes, viewType)
}

func IsValidOperator(op string) bool {
	return contains(ValidOperators, op)
}

func IsValidTrigger(trigger string) bool {
	return contains(ValidTriggers, trigger)
}

func IsValidAction(action string) bool {
	return contains(ValidActions, action)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
