package shared

// PatternKind represents a classical chart pattern known to the scanner.
type PatternKind int

// The declaration order fixes the order detectors run in.
const (
	CupWithHandle PatternKind = iota
	HeadAndShoulders
	Pennant
	DoubleTop
	DoubleBottom
	TripleTop
	TripleBottom
	AscendingCorridor
	DescendingCorridor
	NeutralRectangle
	DivergingRectangle
	AscendingTriangle
)

// PatternKinds enumerates all known pattern kinds in detection order.
var PatternKinds = [...]PatternKind{
	CupWithHandle,
	HeadAndShoulders,
	Pennant,
	DoubleTop,
	DoubleBottom,
	TripleTop,
	TripleBottom,
	AscendingCorridor,
	DescendingCorridor,
	NeutralRectangle,
	DivergingRectangle,
	AscendingTriangle,
}

// String stringifies the provided pattern kind.
func (k PatternKind) String() string {
	switch k {
	case CupWithHandle:
		return "cup_with_handle"
	case HeadAndShoulders:
		return "head_and_shoulders"
	case Pennant:
		return "pennant"
	case DoubleTop:
		return "double_top"
	case DoubleBottom:
		return "double_bottom"
	case TripleTop:
		return "triple_top"
	case TripleBottom:
		return "triple_bottom"
	case AscendingCorridor:
		return "ascending_corridor"
	case DescendingCorridor:
		return "descending_corridor"
	case NeutralRectangle:
		return "neutral_rectangle"
	case DivergingRectangle:
		return "diverging_rectangle"
	case AscendingTriangle:
		return "ascending_triangle"
	default:
		return "unknown"
	}
}

// PatternMetadata describes a pattern kind for presentation purposes.
type PatternMetadata struct {
	// DisplayName is the human readable pattern name.
	DisplayName string
	// Description outlines the formation and what confirms it.
	Description string
	// SuccessRate is the estimated historical success rate of the pattern,
	// per technical analysis literature.
	SuccessRate string
	// Confidence qualifies the success rate estimate.
	Confidence string
}

// patternMetadata is the static pattern kind registry used by the
// presentation layer.
var patternMetadata = map[PatternKind]PatternMetadata{
	CupWithHandle: {
		DisplayName: "Cup with Handle",
		Description: "A bullish continuation pattern marking a consolidation period followed " +
			"by a breakout: a rounded bottom (cup) followed by a slight downward drift (handle), " +
			"complete when price breaks above the resistance formed by the cup.",
		SuccessRate: "65%",
		Confidence:  "High",
	},
	HeadAndShoulders: {
		DisplayName: "Head and Shoulders",
		Description: "A reversal pattern signalling a trend change from bullish to bearish: " +
			"three peaks with the central peak (head) higher than the flanking shoulders, " +
			"confirmed when price breaks below the neckline through the intervening troughs.",
		SuccessRate: "75%",
		Confidence:  "High",
	},
	Pennant: {
		DisplayName: "Pennant",
		Description: "A continuation pattern forming after a strong directional move (the pole), " +
			"followed by a consolidation where price converges in a small symmetrical triangle, " +
			"complete when price breaks out in the direction of the initial move.",
		SuccessRate: "70%",
		Confidence:  "Medium",
	},
	DoubleTop: {
		DisplayName: "Double Top",
		Description: "A bearish reversal after an uptrend: two consecutive peaks at " +
			"approximately the same level with a moderate trough in between, confirmed " +
			"when price breaks below the support level.",
		SuccessRate: "65%",
		Confidence:  "Medium",
	},
	DoubleBottom: {
		DisplayName: "Double Bottom",
		Description: "A bullish reversal after a downtrend: two consecutive troughs at " +
			"approximately the same level with a moderate peak in between, confirmed " +
			"when price breaks above the resistance level.",
		SuccessRate: "65%",
		Confidence:  "Medium",
	},
	TripleTop: {
		DisplayName: "Triple Top",
		Description: "A bearish reversal similar to the double top but with three peaks at " +
			"approximately the same level, confirmed when price breaks below support.",
		SuccessRate: "78%",
		Confidence:  "High",
	},
	TripleBottom: {
		DisplayName: "Triple Bottom",
		Description: "A bullish reversal similar to the double bottom but with three troughs " +
			"at approximately the same level, confirmed when price breaks above resistance.",
		SuccessRate: "78%",
		Confidence:  "High",
	},
	AscendingCorridor: {
		DisplayName: "Ascending Corridor",
		Description: "A bullish continuation pattern where price moves between two parallel " +
			"upward sloping trendlines, the lower connecting lows (support) and the upper " +
			"connecting highs (resistance).",
		SuccessRate: "60%",
		Confidence:  "Medium",
	},
	DescendingCorridor: {
		DisplayName: "Descending Corridor",
		Description: "A bearish continuation pattern where price moves between two parallel " +
			"downward sloping trendlines, the upper connecting highs (resistance) and the " +
			"lower connecting lows (support).",
		SuccessRate: "60%",
		Confidence:  "Medium",
	},
	NeutralRectangle: {
		DisplayName: "Neutral Rectangle",
		Description: "A trading range where price consolidates between two horizontal parallel " +
			"trendlines, indicating equilibrium between buyers and sellers with no clear direction.",
		SuccessRate: "55%",
		Confidence:  "Low",
	},
	DivergingRectangle: {
		DisplayName: "Diverging Rectangle",
		Description: "A broadening formation where price moves between two diverging trendlines, " +
			"showing increasing volatility: resistance slopes upward while support slopes downward.",
		SuccessRate: "50%",
		Confidence:  "Low",
	},
	AscendingTriangle: {
		DisplayName: "Ascending Triangle",
		Description: "A bullish continuation pattern with a flat upper trendline (resistance) " +
			"and an upward sloping lower trendline (support), typically resolving in an upward " +
			"breakout through resistance.",
		SuccessRate: "72%",
		Confidence:  "High",
	},
}

// FetchPatternMetadata returns the metadata describing the provided pattern kind.
func FetchPatternMetadata(kind PatternKind) PatternMetadata {
	meta, ok := patternMetadata[kind]
	if !ok {
		return PatternMetadata{
			DisplayName: kind.String(),
			Description: "No description available for this pattern.",
			SuccessRate: "Unknown",
			Confidence:  "Unknown",
		}
	}
	return meta
}
