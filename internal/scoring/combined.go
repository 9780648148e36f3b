package scoring

// CombinedCodeSeparator joins the two layer primaries.
const CombinedCodeSeparator = "_"

// CombinedCode returns "{layer1}_{layer2}" when both primaries are present and
// nil otherwise.
func CombinedCode(layer1, layer2 *string) *string {
	if layer1 == nil || layer2 == nil || *layer1 == "" || *layer2 == "" {
		return nil
	}
	return stringPtr(*layer1 + CombinedCodeSeparator + *layer2)
}
