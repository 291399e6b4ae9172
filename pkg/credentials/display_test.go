package credentials_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/askpplx/pkg/credentials"
)

var _ = Describe("MaskAPIKey", func() {
	DescribeTable("masking",
		func(key, expected string) {
			Expect(credentials.MaskAPIKey(key)).To(Equal(expected))
		},
		Entry("empty key", "", ""),
		Entry("short key", "abc", "****"),
		Entry("exactly sixteen characters", "1234567890abcdef", "****"),
		Entry("seventeen characters", "1234567890abcdefg", "1234...defg"),
		Entry("typical key", "pplx-abcdefghijklmnopqrstuvwxyz", "pplx...wxyz"),
	)
})

var _ = Describe("FormatRequiresHelpText", func() {
	It("flags a missing key", func() {
		Expect(credentials.FormatRequiresHelpText("")).To(Equal(
			"Requires:\n" +
				"  - PERPLEXITY_API_KEY - MISSING! Set PERPLEXITY_API_KEY=<token> " +
				"or run: askpplx config --set-api-key <token>"))
	})

	It("shows the last four characters of a configured key", func() {
		Expect(credentials.FormatRequiresHelpText("pplx-secret-1234")).To(Equal(
			"Requires: PERPLEXITY_API_KEY (configured: last4=1234)"))
	})

	It("shows the whole key when it is shorter than four characters", func() {
		Expect(credentials.FormatRequiresHelpText("ab")).To(Equal(
			"Requires: PERPLEXITY_API_KEY (configured: last4=ab)"))
	})
})
