package pipeline

import (
	"fmt"
	"os"
	"strings"
)

// DefaultTaxonomy is the built-in reference text of known billing-error
// categories handed to the error-detection stage. It is data, not logic:
// an alternate taxonomy can be loaded from a file via configuration.
const DefaultTaxonomy = `
- Upcoding: Billing for a more expensive service than what was provided (e.g., billing for a 60-min session when it was 30-min).
- Unbundling: Charging separately for services that should be a single charge.
- Duplicate Billing: Charging for the same service multiple times.
- Incorrect Patient Information: Mismatched name, policy number, or other details.
- Non-covered Services: Charging for services not covered by the patient's insurance plan.
- Typographical Errors: Simple typos in codes or prices.
- Balance Billing: Illegally billing a patient for the difference between what insurance paid and what the provider charged (in-network providers).
- Outdated codes: Using CPT codes that are no longer valid.
`

// LoadTaxonomy returns the taxonomy text from path, or DefaultTaxonomy when
// path is empty.
func LoadTaxonomy(path string) (string, error) {
	if path == "" {
		return DefaultTaxonomy, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading taxonomy file: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", fmt.Errorf("taxonomy file %s is empty", path)
	}
	return string(b), nil
}
