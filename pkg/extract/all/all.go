// Package all imports every language analyzer for side-effect
// registration.
// Usage: _ "github.com/flaggate/flaggate/pkg/extract/all"
package all

import (
	_ "github.com/flaggate/flaggate/pkg/extract/csharp"
	_ "github.com/flaggate/flaggate/pkg/extract/java"
	_ "github.com/flaggate/flaggate/pkg/extract/javascript"
	_ "github.com/flaggate/flaggate/pkg/extract/python"
)
