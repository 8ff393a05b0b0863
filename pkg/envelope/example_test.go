package envelope_test

import (
	"fmt"

	"github.com/matzehuels/qrmosaic/pkg/envelope"
)

func ExampleWrap() {
	fmt.Println(envelope.Wrap("hello world"))
	// Output:
	// {"hash":"b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9","text":"hello world"}
}

func ExampleUnwrap() {
	payload := envelope.Wrap("hello world")

	unwrapped, err := envelope.Unwrap(payload)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(unwrapped.Text)
	fmt.Println(unwrapped.Kind == envelope.KindEnvelope)
	// Output:
	// hello world
	// true
}

func ExampleUnwrap_legacy() {
	// Payloads from before the checksum layer pass through untouched.
	unwrapped, err := envelope.Unwrap("plain old payload")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(unwrapped.Text)
	fmt.Println(unwrapped.Kind == envelope.KindLegacy)
	// Output:
	// plain old payload
	// true
}
