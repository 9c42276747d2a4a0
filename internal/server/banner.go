package server

import (
	"fmt"
	"strings"
)

// printBanner は起動時の案内を標準出力に表示する
func (s *Server) printBanner() {
	rule := strings.Repeat("=", 60)
	base := fmt.Sprintf("http://localhost:%d", s.Port())

	lines := []string{
		rule,
		"🎯 IdealFit Dashboard Server",
		rule,
		"",
		"✅ Server running at: " + base,
		"📁 Serving files from: " + s.config.Static.Root,
		"",
	}

	if page := strings.TrimPrefix(s.config.Static.LandingPage, "/"); page != "" {
		lines = append(lines,
			"📊 Access your dashboard at:",
			"   "+base+"/"+page,
			"",
		)
	}

	lines = append(lines,
		"💡 This avoids CORS issues when connecting to the API",
		"",
		"Press Ctrl+C to stop",
		rule,
		"",
	)

	fmt.Fprintln(s.out, strings.Join(lines, "\n"))
}
