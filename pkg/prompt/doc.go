// Package prompt drives the account form from a terminal. Answers are
// collected through a Driver, fed into a controller and submitted; the
// outcome is printed with lipgloss styles.
package prompt
