package prompt_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/askpplx/pkg/prompt"
)

func ptr(s string) *string { return &s }

var _ = Describe("Resolve", func() {
	DescribeTable("picks the effective prompt",
		func(argument, stdin *string, want string, wantOK bool) {
			got, ok := prompt.Resolve(argument, stdin)
			Expect(ok).To(Equal(wantOK))
			Expect(got).To(Equal(want))
		},
		Entry("prefers the argument over stdin", ptr("arg prompt"), ptr("stdin prompt"), "arg prompt", true),
		Entry("uses stdin when the argument is missing", nil, ptr("stdin prompt\n"), "stdin prompt", true),
		Entry("rejects a whitespace-only argument", ptr("   "), nil, "", false),
		Entry("does not fall back to stdin for a blank argument", ptr(" "), ptr("stdin"), "", false),
		Entry("preserves meaningful leading whitespace", ptr("  hi"), nil, "  hi", true),
		Entry("strips trailing whitespace", ptr("hi \t\n"), nil, "hi", true),
		Entry("returns nothing with no sources", nil, nil, "", false),
		Entry("rejects empty stdin", nil, ptr(""), "", false),
	)
})
