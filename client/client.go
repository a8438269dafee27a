// Package client embeds the static browser frontend.
package client

import "embed"

//go:embed public
var Files embed.FS
