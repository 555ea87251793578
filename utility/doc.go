// Package utility holds catalog components in the utilities category.
// SQLDatabase wraps database/sql behind a connection URI, with sqlite and
// postgres drivers registered.
package utility
