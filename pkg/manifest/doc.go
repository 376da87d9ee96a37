// Package manifest edits the dependency tables of a Cargo.toml in place.
//
// A [Document] is the manifest text plus the byte spans of its table headers
// and key/value pairs. [Document.Set] replaces the value of exactly one
// dependency key and leaves every other byte of the file alone: comments,
// blank lines, key order and quoting elsewhere survive an edit. The edited
// text is decoded again with github.com/BurntSushi/toml before it is accepted.
//
// The value written is chosen by [Entry]:
//
//	serde = "1.0"                                                   // defaults, no extra features
//	serde = { version = "1.0", features = ["derive"] }              // defaults plus features
//	serde = { version = "1.0", default-features = false }           // no defaults
//	serde = { version = "1.0", default-features = false, features = ["std"] }
package manifest
