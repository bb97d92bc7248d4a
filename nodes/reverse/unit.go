// Package reverse is a scripted node unit: this file is evaluated by the
// host's interpreter at load time instead of being linked into the binary.
// It must only use the standard library.
package reverse

// Build returns the node body. The manifest references it as "reverse.Build".
func Build() (func(map[string]any) (map[string]any, error), error) {
	return func(inputs map[string]any) (map[string]any, error) {
		text, _ := inputs["text"].(string)

		runes := []rune(text)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}

		return map[string]any{"text": string(runes)}, nil
	}, nil
}
