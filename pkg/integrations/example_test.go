package integrations_test

import (
	"fmt"

	"github.com/jedrzejginter/toolkit/pkg/integrations"
)

func ExampleNormalizePkgName() {
	fmt.Println(integrations.NormalizePkgName("  React "))
	fmt.Println(integrations.NormalizePkgName("@Types/Node"))
	// Output:
	// react
	// @types/node
}

func ExampleEscapePkgName() {
	fmt.Println(integrations.EscapePkgName("@types/node"))
	fmt.Println(integrations.EscapePkgName("husky"))
	// Output:
	// @types%2Fnode
	// husky
}
