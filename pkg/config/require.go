package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
)

// Required is an env var name paired with the value read for it.
type Required struct {
	Env   string
	Value string
}

// CheckRequired lists every empty entry in one error.
func CheckRequired(vals ...Required) error {
	var missing []string
	for _, v := range vals {
		if strings.TrimSpace(v.Value) == "" {
			missing = append(missing, v.Env)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("missing required env %s", strings.Join(missing, ", "))
}

func MustNonEmpty(value, envName string) {
	if err := CheckRequired(Required{Env: envName, Value: value}); err != nil {
		log.Fatal(err)
	}
}
