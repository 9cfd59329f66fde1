package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for walkthrough.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct {
		text  string
		color string
	}{
		{` __      __        .__   __      `, "#818cf8"},
		{`/  \    /  \_____  |  | |  | __  `, "#a78bfa"},
		{`\   \/\/   /\__  \ |  | |  |/ /  `, "#c084fc"},
		{` \        /  / __ \|  |_|    <   `, "#e879f9"},
		{`  \__/\  /  (____  /____/__|_ \  `, "#f472b6"},
		{`       \/        \/          \/ through`, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
