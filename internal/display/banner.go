package display

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// BannerTitle is the text animated at startup.
const BannerTitle = "ViteTail Starter"

// BannerSubtitle is printed under the title.
const BannerSubtitle = "Create a new Vite project with Tailwind CSS ⚡"

const bannerFrameInterval = 80 * time.Millisecond

// RenderBanner colors each rune of text from BannerGradient, starting
// shift colors into the gradient.
func RenderBanner(text string, shift int) string {
	var b strings.Builder
	i := 0
	for _, r := range text {
		if r == ' ' {
			b.WriteRune(r)
			i++
			continue
		}
		c := BannerGradient[(i+shift)%len(BannerGradient)]
		b.WriteString(lipgloss.NewStyle().Foreground(c).Bold(true).Render(string(r)))
		i++
	}
	return b.String()
}

// ShowBanner prints the banner. On a terminal the gradient cycles across
// the title for duration before settling; ctx cancels the animation early.
func (d *Display) ShowBanner(ctx context.Context, duration time.Duration) {
	if !d.interactive || duration <= 0 {
		fmt.Fprintf(d.out, "\n  %s\n", RenderBanner(BannerTitle, 0))
		fmt.Fprintf(d.out, "  %s\n\n", StyleMuted.Render(BannerSubtitle))
		return
	}

	fmt.Fprintln(d.out)
	ticker := time.NewTicker(bannerFrameInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(duration)
	defer deadline.Stop()

	shift := 0
	fmt.Fprintf(d.out, "\r\033[K  %s", RenderBanner(BannerTitle, shift))
	d.flush()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-deadline.C:
			break loop
		case <-ticker.C:
			shift++
			fmt.Fprintf(d.out, "\r\033[K  %s", RenderBanner(BannerTitle, shift))
			d.flush()
		}
	}
	fmt.Fprintf(d.out, "\r\033[K  %s\n", RenderBanner(BannerTitle, 0))
	fmt.Fprintf(d.out, "  %s\n\n", StyleMuted.Render(BannerSubtitle))
}
