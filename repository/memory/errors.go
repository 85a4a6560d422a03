package memory

import "fmt"

func errNotFound(key string) error {
	return fmt.Errorf("memory repository: no entry for %q", key)
}
