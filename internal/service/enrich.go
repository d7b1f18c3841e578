package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/channel-insights/channel-analyzer-go/internal/models"
)

const hoursPerDay = 24

var durationRegex = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// formatCount renders large counters in abbreviated human form with one
// decimal place: 12345 -> "12.3K", 1500000 -> "1.5M", 2000000000 -> "2.0B".
// Values below 1000 are rendered as the plain integer.
func formatCount(num int64) string {
	switch {
	case num >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(num)/1_000_000_000)
	case num >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(num)/1_000_000)
	case num >= 1_000:
		return fmt.Sprintf("%.1fK", float64(num)/1_000)
	default:
		return strconv.FormatInt(num, 10)
	}
}

// formatDuration converts an ISO 8601 duration ("PT1H2M3S") to a compact
// display form ("1:02:03", "4:13", "0:45"). Malformed input renders as "0:00".
func formatDuration(duration string) string {
	m := durationRegex.FindStringSubmatch(duration)
	if m == nil {
		return "0:00"
	}

	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// timeGap computes the gap between a video and its predecessor in sort order:
// elapsed hours plus a human phrase ("5 hours", "1 day 1 hours", "2 days").
// The hours clause is omitted when the remainder is zero.
func timeGap(current, previous time.Time) (float64, string) {
	if previous.IsZero() {
		return 0, ""
	}

	totalHours := math.Abs(previous.Sub(current).Hours())

	if totalHours < hoursPerDay {
		return totalHours, fmt.Sprintf("%d hours", int(totalHours))
	}

	days := int(totalHours) / hoursPerDay
	remaining := int(totalHours) % hoursPerDay

	dayWord := "days"
	if days == 1 {
		dayWord = "day"
	}

	if remaining > 0 {
		return totalHours, fmt.Sprintf("%d %s %d hours", days, dayWord, remaining)
	}
	return totalHours, fmt.Sprintf("%d %s", days, dayWord)
}

// engagementRate is (likes + comments) / views as a percentage, rounded to
// two decimals. Zero views yields zero, never a division by zero.
func engagementRate(views, likes, comments int64) float64 {
	if views == 0 {
		return 0
	}
	return round2(float64(likes+comments) / float64(views) * 100)
}

// primaryCategory extracts a display name from the first topic category URL
// (".../wiki/Hip_hop_music" -> "Hip Hop Music"). Empty input yields "General".
func primaryCategory(topicCategories []string) string {
	if len(topicCategories) == 0 {
		return "General"
	}

	segments := strings.Split(topicCategories[0], "/")
	name := segments[len(segments)-1]
	name = strings.ReplaceAll(name, "_", " ")

	return titleCase(name)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// monetizationStatus is a best-effort heuristic from public signals only: a
// channel with more than 10 sampled videos averaging over 10k views counts as
// one signal, over 1000 subscribers as another. Two signals -> likely, one ->
// possibly, zero -> unknown.
func monetizationStatus(subscriberCount int64, viewCounts []int64) string {
	signals := 0

	if len(viewCounts) > 10 {
		var total int64
		for _, v := range viewCounts {
			total += v
		}
		if float64(total)/float64(len(viewCounts)) > 10_000 {
			signals++
		}
	}

	if subscriberCount > 1_000 {
		signals++
	}

	switch {
	case signals >= 2:
		return models.MonetizationLikely
	case signals == 1:
		return models.MonetizationPossible
	default:
		return models.MonetizationUnknown
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func roundToInt(x float64) int64 {
	return int64(math.Round(x))
}
