// Package qrcode renders workspace invite links as PNG QR codes that
// members show on screen for others to scan into the Mini App.
//
// Generate returns raw PNG bytes for the invite endpoint;
// GenerateBase64Image wraps the same image in a data URI for inline
// embedding. Codes use medium error correction, which tolerates the
// glare and partial occlusion of a phone-to-phone scan.
package qrcode
