package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldExpenseID = "expense_id"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldPeriod    = "period"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldCount     = "count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentCLI      = "cli"
	ComponentStorage  = "storage"
	ComponentSettings = "settings"
	ComponentBackup   = "backup"
	ComponentExpense  = "expense"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpList    = "list"
	OpExport  = "export"
	OpImport  = "import"
	OpSeed    = "seed"
	OpStartup = "startup"
)
