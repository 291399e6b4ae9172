package render_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/askpplx/pkg/render"
)

var _ = Describe("ChooseStrategy", func() {
	DescribeTable("selects the rendering path",
		func(opts render.DisplayOptions, want render.Strategy) {
			Expect(render.ChooseStrategy(opts)).To(Equal(want))
		},
		Entry("default streams", render.DisplayOptions{}, render.Incremental),
		Entry("show thinking still streams", render.DisplayOptions{ShowThinking: true}, render.Incremental),
		Entry("json buffers", render.DisplayOptions{JSON: true}, render.Buffered),
		Entry("json with thinking buffers", render.DisplayOptions{JSON: true, ShowThinking: true}, render.Buffered),
		Entry("no stream buffers", render.DisplayOptions{NoStream: true}, render.Buffered),
		Entry("markdown buffers", render.DisplayOptions{Markdown: true}, render.Buffered),
	)

	It("names strategies", func() {
		Expect(render.Incremental.String()).To(Equal("incremental"))
		Expect(render.Buffered.String()).To(Equal("buffered"))
	})
})
