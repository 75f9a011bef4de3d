// Package document loads HTML documents from files, fs.FS entries, URLs or
// inline strings and exposes them as read-only DOM trees queried with CSS
// selectors.
package document
