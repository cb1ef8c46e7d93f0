package columns

import (
	"fmt"

	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
)

// TypeInfo is the static metadata shown in the column type picker.
type TypeInfo struct {
	Type        types.ColumnType `json:"type"`
	Label       string           `json:"label"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Editable    bool             `json:"editable"`
	Widget      string           `json:"widget"`
}

// Type categories
const (
	CategoryBasic    = "basic"
	CategoryChoice   = "choice"
	CategoryTime     = "time"
	CategoryContact  = "contact"
	CategoryComputed = "computed"
	CategoryMedia    = "media"
)

var registry = map[types.ColumnType]TypeInfo{
	types.ColumnText:        {Label: "Text", Description: "Short single-line text", Category: CategoryBasic, Editable: true},
	types.ColumnLongText:    {Label: "Long Text", Description: "Multi-line notes and descriptions", Category: CategoryBasic, Editable: true},
	types.ColumnNumber:      {Label: "Number", Description: "Numeric values with optional bounds", Category: CategoryBasic, Editable: true},
	types.ColumnCurrency:    {Label: "Currency", Description: "Monetary amounts in a fixed currency", Category: CategoryBasic, Editable: true},
	types.ColumnPercentage:  {Label: "Percentage", Description: "A value between 0 and 100", Category: CategoryBasic, Editable: true},
	types.ColumnRating:      {Label: "Rating", Description: "Star rating, 1 to 5 by default", Category: CategoryBasic, Editable: true},
	types.ColumnStatus:      {Label: "Status", Description: "Colored status labels", Category: CategoryChoice, Editable: true},
	types.ColumnDropdown:    {Label: "Dropdown", Description: "Pick one option from a list", Category: CategoryChoice, Editable: true},
	types.ColumnMultiSelect: {Label: "Multi Select", Description: "Pick several options from a list", Category: CategoryChoice, Editable: true},
	types.ColumnTags:        {Label: "Tags", Description: "Free-form or predefined tags", Category: CategoryChoice, Editable: true},
	types.ColumnCheckbox:    {Label: "Checkbox", Description: "Yes/no toggle", Category: CategoryChoice, Editable: true},
	types.ColumnDate:        {Label: "Date", Description: "Calendar date", Category: CategoryTime, Editable: true},
	types.ColumnDateTime:    {Label: "Date & Time", Description: "Date with time of day", Category: CategoryTime, Editable: true},
	types.ColumnTimeline:    {Label: "Timeline", Description: "Start and end date range", Category: CategoryTime, Editable: true},
	types.ColumnWeek:        {Label: "Week", Description: "ISO calendar week", Category: CategoryTime, Editable: true},
	types.ColumnPeople:      {Label: "People", Description: "Assign board members", Category: CategoryContact, Editable: true},
	types.ColumnEmail:       {Label: "Email", Description: "Email address", Category: CategoryContact, Editable: true},
	types.ColumnPhone:       {Label: "Phone", Description: "Phone number", Category: CategoryContact, Editable: true},
	types.ColumnLink:        {Label: "Link", Description: "Web address", Category: CategoryContact, Editable: true},
	types.ColumnFile:        {Label: "Files", Description: "Attached files", Category: CategoryMedia, Editable: true},
	types.ColumnLocation:    {Label: "Location", Description: "Address with coordinates", Category: CategoryMedia, Editable: true},
	types.ColumnFormula:     {Label: "Formula", Description: "Value computed from other columns", Category: CategoryComputed},
	types.ColumnMirror:      {Label: "Mirror", Description: "Shows a column from a linked board", Category: CategoryComputed},
	types.ColumnAutoNumber:  {Label: "Auto Number", Description: "Sequential identifier assigned on creation", Category: CategoryComputed},
	types.ColumnProgress:    {Label: "Progress", Description: "Completion derived from status columns", Category: CategoryComputed},
	types.ColumnCreatedAt:   {Label: "Created At", Description: "When the item was created", Category: CategoryComputed},
	types.ColumnUpdatedAt:   {Label: "Updated At", Description: "When the item was last changed", Category: CategoryComputed},
}

// Info returns the metadata of a column type.
func Info(t types.ColumnType) (TypeInfo, bool) {
	info, ok := registry[t]
	if !ok {
		return TypeInfo{}, false
	}
	info.Type = t
	info.Widget = FieldFor(t).Widget()
	return info, true
}

// Registry returns metadata for every type in picker order.
func Registry() []TypeInfo {
	out := make([]TypeInfo, 0, len(types.AllColumnTypes))
	for _, t := range types.AllColumnTypes {
		if info, ok := Info(t); ok {
			out = append(out, info)
		}
	}
	return out
}

// IsEditable reports whether users may write cells of type t.
func IsEditable(t types.ColumnType) bool {
	return registry[t].Editable
}

func label(t types.ColumnType) string {
	if info, ok := registry[t]; ok {
		return info.Label
	}
	return string(t)
}

// lossless lists the transitions that keep every existing value.
var lossless = map[types.ColumnType][]types.ColumnType{
	types.ColumnText:        {types.ColumnLongText, types.ColumnEmail, types.ColumnPhone, types.ColumnLink},
	types.ColumnLongText:    {types.ColumnText},
	types.ColumnNumber:      {types.ColumnCurrency, types.ColumnText, types.ColumnLongText},
	types.ColumnCurrency:    {types.ColumnNumber, types.ColumnText, types.ColumnLongText},
	types.ColumnPercentage:  {types.ColumnNumber, types.ColumnText, types.ColumnLongText},
	types.ColumnRating:      {types.ColumnNumber, types.ColumnText, types.ColumnLongText},
	types.ColumnStatus:      {types.ColumnDropdown, types.ColumnText, types.ColumnLongText},
	types.ColumnDropdown:    {types.ColumnStatus, types.ColumnMultiSelect, types.ColumnTags, types.ColumnText, types.ColumnLongText},
	types.ColumnMultiSelect: {types.ColumnTags},
	types.ColumnTags:        {types.ColumnMultiSelect},
	types.ColumnDate:        {types.ColumnDateTime, types.ColumnText, types.ColumnLongText},
	types.ColumnDateTime:    {types.ColumnText, types.ColumnLongText},
	types.ColumnWeek:        {types.ColumnText, types.ColumnLongText},
	types.ColumnEmail:       {types.ColumnText, types.ColumnLongText},
	types.ColumnPhone:       {types.ColumnText, types.ColumnLongText},
	types.ColumnLink:        {types.ColumnText, types.ColumnLongText},
	types.ColumnCheckbox:    {types.ColumnText, types.ColumnLongText},
}

// lossy holds specific warnings for well-known risky transitions.
var lossy = map[[2]types.ColumnType]string{
	{types.ColumnText, types.ColumnNumber}:          "Text values that are not numbers will be cleared",
	{types.ColumnLongText, types.ColumnNumber}:      "Text values that are not numbers will be cleared",
	{types.ColumnText, types.ColumnDate}:            "Text values that are not valid dates will be cleared",
	{types.ColumnText, types.ColumnDropdown}:        "Text values that do not match an option will be cleared",
	{types.ColumnText, types.ColumnStatus}:          "Text values that do not match a status label will be cleared",
	{types.ColumnMultiSelect, types.ColumnDropdown}: "Only the first selected option of each item will be kept",
	{types.ColumnTags, types.ColumnDropdown}:        "Only the first tag of each item will be kept",
	{types.ColumnPeople, types.ColumnText}:          "Assigned people will be converted to their ids",
	{types.ColumnDateTime, types.ColumnDate}:        "The time of day will be dropped from every value",
	{types.ColumnTimeline, types.ColumnDate}:        "Only the start date of each timeline will be kept",
	{types.ColumnNumber, types.ColumnPercentage}:    "Numbers outside 0-100 will fail validation",
	{types.ColumnNumber, types.ColumnRating}:        "Numbers outside the rating scale will be cleared",
	{types.ColumnFile, types.ColumnText}:            "Attached files will be removed",
	{types.ColumnFile, types.ColumnLink}:            "Only the first file URL of each item will be kept",
}

// MigrationWarning returns a user-facing warning when changing a column from
// one type to another may lose data. It returns "" for safe transitions.
// Nothing is migrated here; the warning is informational.
func MigrationWarning(from, to types.ColumnType) string {
	if from == to {
		return ""
	}
	if !IsEditable(to) {
		return fmt.Sprintf("%s columns are computed: existing values will be replaced", label(to))
	}
	for _, t := range lossless[from] {
		if t == to {
			return ""
		}
	}
	if msg, ok := lossy[[2]types.ColumnType{from, to}]; ok {
		return msg
	}
	return fmt.Sprintf("Changing from %s to %s may lose values that cannot be converted", label(from), label(to))
}
