package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Route Table Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryRoute,
		Message:  "Duplicate route path",
		Detail:   "Two route entries resolve the same path pattern. Patterns that differ only in parameter names are duplicates.",
	},
	"E002": {
		Category: CategoryRoute,
		Message:  "Duplicate route name",
		Detail:   "Route names are used for programmatic navigation and must be unique.",
	},
	"E003": {
		Category: CategoryRoute,
		Message:  "Root route count",
		Detail:   "Exactly one route entry must match the root path \"/\".",
	},
	"E004": {
		Category: CategoryRoute,
		Message:  "Invalid route entry",
		Detail:   "A route entry needs a pattern starting with \"/\" and a view.",
	},
	"E010": {
		Category: CategoryRoute,
		Message:  "Unknown route name",
		Detail:   "No route entry carries the requested name.",
	},
	"E011": {
		Category: CategoryRoute,
		Message:  "Missing route parameter",
		Detail:   "A named route was resolved without a value for one of its path parameters.",
	},

	// ============================================
	// Navigation Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryNavigation,
		Message:  "Navigation miss",
		Detail:   "The requested path matches no route entry.",
	},
	"E021": {
		Category: CategoryNavigation,
		Message:  "Invalid navigation path",
		Detail:   "Navigation paths must be relative, start with \"/\" and contain no backslashes or NUL bytes.",
	},

	// ============================================
	// Mount Errors (E101-E119)
	// ============================================

	"E101": {
		Category: CategoryMount,
		Message:  "Mount point missing",
		Detail:   "The document shell has no element with the mount point id.",
	},
	"E102": {
		Category: CategoryMount,
		Message:  "Application already mounted",
		Detail:   "The application is initialized exactly once per process and cannot be mounted again.",
	},
	"E103": {
		Category: CategoryMount,
		Message:  "Invalid mount selector",
		Detail:   "Mount selectors must be an element id selector such as \"#app\".",
	},
	"E104": {
		Category: CategoryMount,
		Message:  "Plugin installation failed",
		Detail:   "A plugin registered with Use returned an error from Install.",
	},
	"E105": {
		Category: CategoryMount,
		Message:  "Application not mounted",
		Detail:   "The application must be mounted before it can serve requests.",
	},

	// ============================================
	// Config Errors (E201-E219)
	// ============================================

	"E201": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "storefront.json or an environment override holds an invalid value.",
	},
	"E202": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "storefront.json exists but could not be read or parsed.",
	},

	// ============================================
	// Export Errors (E301-E319)
	// ============================================

	"E301": {
		Category: CategoryExport,
		Message:  "Export failed",
		Detail:   "A prerendered page could not be rendered or written to its sink.",
	},
	"E302": {
		Category: CategoryExport,
		Message:  "Export sink misconfigured",
		Detail:   "Export needs either an output directory or an S3 bucket.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
