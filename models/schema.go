package models

// OutputShape declares whether a section's table collapses into a single
// record or yields one record per row.
type OutputShape int

const (
	SingleRecord OutputShape = iota
	ListOfRecords
)

// RowPolicy selects which body rows of a section's table are significant.
type RowPolicy int

const (
	// AllRows keeps every qualifying row.
	AllRows RowPolicy = iota
	// FirstAndLatest keeps only the row at index 1 (the first real entry
	// after the header) and the last row. The court site's order table
	// renders intermediate orders that the listing treats as noise.
	FirstAndLatest
)

// NoLinkColumn marks a schema without an anchor-bearing column.
const NoLinkColumn = -1

// TableSchema is the declarative descriptor for one detail sub-table: the
// AJAX insert selector it arrives under, the display name it is attached to
// the case record as, and how its rows map onto column names.
type TableSchema struct {
	Selector   string
	Name       string
	Columns    []string
	Shape      OutputShape
	LinkColumn int
	Policy     RowPolicy
}

// OrdersSelector is the selector of the section whose rows carry
// downloadable order documents.
const OrdersSelector = "orders"

// SectionSchemas returns the registry of recognized detail sections, keyed
// by insert selector. Selector spellings (including "detials") are the
// site's own.
func SectionSchemas() map[string]TableSchema {
	schemas := []TableSchema{
		{
			Selector:   "case_detials",
			Name:       "Case Details",
			Columns:    []string{"Case Type/CNR", "Filing No: Date", "Reg No: Date"},
			Shape:      SingleRecord,
			LinkColumn: NoLinkColumn,
		},
		{
			Selector:   "cat_detials",
			Name:       "Category Details",
			Columns:    []string{"Category", "Sub Category"},
			Shape:      SingleRecord,
			LinkColumn: NoLinkColumn,
		},
		{
			Selector:   "cs_status",
			Name:       "Case Status",
			Columns:    []string{"Decision Date/Status", "Coram", "Branch/Bench/Causelist"},
			Shape:      SingleRecord,
			LinkColumn: NoLinkColumn,
		},
		{
			Selector:   "pet_dtl",
			Name:       "Petitioner Details",
			Columns:    []string{"Petitioner", "Advocate"},
			Shape:      ListOfRecords,
			LinkColumn: NoLinkColumn,
		},
		{
			Selector:   "res_dtl",
			Name:       "Respondent Details",
			Columns:    []string{"Respondent", "Advocate"},
			Shape:      ListOfRecords,
			LinkColumn: NoLinkColumn,
		},
		{
			Selector:   OrdersSelector,
			Name:       "Order Details",
			Columns:    []string{"Order No", "Bench", "Order Date", "Order Details"},
			Shape:      ListOfRecords,
			LinkColumn: 3,
			Policy:     FirstAndLatest,
		},
	}

	registry := make(map[string]TableSchema, len(schemas))
	for _, s := range schemas {
		registry[s.Selector] = s
	}
	return registry
}
