// Package budget delegates "fit this list under this budget" decisions to a
// chat-completion model. The model only ever sees a bounded snapshot of the
// assigned store's price book and only ever answers with GTINs from that
// snapshot; everything it returns is re-validated before a single row is
// written.
package budget
