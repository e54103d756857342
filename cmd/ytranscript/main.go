// Command ytranscript serves and runs the transcript resolver.
//
//	ytranscript serve                       # HTTP API on server.port
//	ytranscript extract <url> [--json]      # resolve one video
//	ytranscript doctor                      # check yt-dlp, ffmpeg, whisper
//	ytranscript token --subject ci          # mint a bearer token
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
