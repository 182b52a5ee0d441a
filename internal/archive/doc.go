// Package archive maintains the append-only ledger of video titles already
// acquired by the upstream downloader, preventing it from re-fetching
// content that is already on disk.
package archive
