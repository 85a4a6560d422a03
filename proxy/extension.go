package proxy

import "github.com/zernjs/kernel/logging"

// ExtensionFunc derives a partial API to merge into the current one.
type ExtensionFunc func(currentAPI API) (partial any, err error)

// MergeExtensions shallow-merges the result of every extension targeting
// a plugin into its current API, in registration order (spec.md §4.3).
// A non-map result is logged and skipped rather than failing the merge;
// extensions may override existing keys, the original value is lost.
func MergeExtensions(currentAPI API, extensions []ExtensionFunc) (API, error) {
	result := make(API, len(currentAPI))
	for k, v := range currentAPI {
		result[k] = v
	}

	for _, ext := range extensions {
		partial, err := ext(result)
		if err != nil {
			return nil, err
		}
		merged, ok := partial.(map[string]any)
		if !ok {
			logging.Global().Warnf("proxy: extension returned a non-object result (%T); skipped", partial)
			continue
		}
		for k, v := range merged {
			result[k] = v
		}
	}
	return result, nil
}
