// Package share turns poll share links into QR codes.
//
// The backend hands out an absolute frontend URL per poll; this package
// validates it and renders it as a PNG (QR) or an embeddable data URI
// (QRDataURI) for terminals, emails, and printed flyers.
package share
