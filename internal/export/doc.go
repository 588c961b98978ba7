// Package export renders record sets for hand-off outside the application:
// a CSV table, a presentational HTML document and an XLSX workbook.
//
// Renderers are pure. Delivering the rendered bytes (a download, a print
// job, a table view) is the job of a Sink; FileSink writes artifacts to a
// directory. An empty record set renders nothing and is never delivered.
package export
