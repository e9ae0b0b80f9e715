// Package errors provides coded, actionable errors for storefront.
//
// Every failure the application can report at startup or during navigation
// has a registered code (e.g., "E101") mapping to a category, a short
// message and a longer explanation. Callers attach a
// suggestion or wrap an underlying cause:
//
//	err := errors.New("E101").
//	    WithDetail(`no element with id "app" in the document shell`).
//	    WithSuggestion(`Add <div id="app"></div> to the shell body`)
//
//	errors.Fprint(os.Stderr, err)
//	// ERROR E101: Mount point missing
//	//
//	//   no element with id "app" in the document shell
//	//
//	//   Hint: Add <div id="app"></div> to the shell body
//	//
//	//   Learn more: storefront explain E101
//
// HasCode reports whether any error in a chain carries a given code, which
// is how tests and the CLI tell startup failures apart.
package errors
