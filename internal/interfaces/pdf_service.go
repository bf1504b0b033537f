package interfaces

// PDFService renders markdown reports as PDF documents
type PDFService interface {
	// ConvertMarkdownToPDF converts markdown content to a PDF byte slice
	ConvertMarkdownToPDF(markdown, title string) ([]byte, error)

	// PageCount returns the number of pages in a generated PDF
	PageCount(pdf []byte) (int, error)
}
