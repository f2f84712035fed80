// Package render groups the image stages of cardpress.
//
// # Subpackages
//
//   - [text]: greedy word wrapping against a pixel budget
//   - [fit]: proportional scaling of foreground images
//   - [card]: layout planning and composition of a single card
//   - [back]: card backs with a QR code
//   - [page]: grid computation, pagination and page rendering
//   - [sink]: PNG and PDF output, output cleanup, image loading
//
// Every stage works on in-memory images. Only [sink] touches the file
// system, so the same stages serve both the CLI and the HTTP API.
package render
