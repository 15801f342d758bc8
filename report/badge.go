package report

import "strings"

// BadgeVariant selects the color of a badge.
type BadgeVariant string

const (
	BadgeVariantSecondary BadgeVariant = "secondary"
	BadgeVariantSuccess   BadgeVariant = "success"
	BadgeVariantWarning   BadgeVariant = "warning"
	BadgeVariantError     BadgeVariant = "error"
	BadgeVariantOutline   BadgeVariant = "outline"
)

type BadgeProps struct {
	Variant BadgeVariant
	Class   string
}

// badgeClasses maps a variant onto the badge classes defined in reportStyle.
func badgeClasses(props BadgeProps) string {
	variant := props.Variant
	switch variant {
	case BadgeVariantSecondary, BadgeVariantSuccess, BadgeVariantWarning, BadgeVariantError, BadgeVariantOutline:
	default:
		variant = BadgeVariantSecondary
	}

	classes := []string{"badge", "badge-" + string(variant)}
	if props.Class != "" {
		classes = append(classes, props.Class)
	}
	return strings.Join(classes, " ")
}

func outcomeVariant(o Outcome) BadgeVariant {
	switch o {
	case OutcomeExpected:
		return BadgeVariantSuccess
	case OutcomeFlaky:
		return BadgeVariantWarning
	case OutcomeSkipped:
		return BadgeVariantSecondary
	}
	return BadgeVariantError
}

func statusVariant(s Status) BadgeVariant {
	switch s {
	case StatusPassed:
		return BadgeVariantSuccess
	case StatusSkipped:
		return BadgeVariantSecondary
	case StatusTimedOut:
		return BadgeVariantWarning
	}
	return BadgeVariantError
}
