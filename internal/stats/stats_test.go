package stats_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/agentlab/internal/stats"
)

var _ = Describe("Gini", func() {
	It("is 0 for empty input", func() {
		Expect(stats.Gini(nil)).To(BeZero())
	})

	It("is 0 for all-zero wealth", func() {
		Expect(stats.Gini([]float64{0, 0, 0})).To(BeZero())
	})

	It("is 0 for perfect equality", func() {
		Expect(stats.Gini([]float64{1, 1, 1, 1})).To(BeNumerically("~", 0, 1e-12))
	})

	It("approaches 1 as one agent holds everything", func() {
		values := make([]float64, 100)
		values[0] = 100
		Expect(stats.Gini(values)).To(BeNumerically("~", 0.99, 1e-9))
	})

	It("stays within [0, 1]", func() {
		g := stats.Gini([]float64{3, 0, 7, 2, 2, 9, 0, 1})
		Expect(g).To(BeNumerically(">=", 0))
		Expect(g).To(BeNumerically("<=", 1))
	})

	It("is order-independent", func() {
		a := stats.Gini([]float64{5, 1, 3, 0, 2})
		b := stats.Gini([]float64{0, 1, 2, 3, 5})
		Expect(a).To(BeNumerically("~", b, 1e-12))
	})
})

var _ = Describe("Histogram", func() {
	It("rejects a non-positive bin count", func() {
		_, err := stats.Histogram([]float64{1}, 0)
		Expect(err).To(MatchError(stats.ErrBadBins))
	})

	It("preserves the total count", func() {
		values := []float64{0, 1, 1, 2, 3, 5, 8, 13}
		bins, err := stats.Histogram(values, 10)
		Expect(err).NotTo(HaveOccurred())
		total := 0
		for _, c := range bins.Counts {
			total += c
		}
		Expect(total).To(Equal(len(values)))
		Expect(bins.Edges).To(HaveLen(11))
	})

	It("collapses all-equal input into one bin", func() {
		bins, err := stats.Histogram([]float64{4, 4, 4}, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(bins.Counts[0]).To(Equal(3))
		for _, c := range bins.Counts[1:] {
			Expect(c).To(BeZero())
		}
	})

	It("puts the maximum in the last bin", func() {
		bins, err := stats.Histogram([]float64{0, 10}, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(bins.Counts[0]).To(Equal(1))
		Expect(bins.Counts[9]).To(Equal(1))
	})

	It("handles empty input", func() {
		bins, err := stats.Histogram(nil, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(bins.Counts).To(Equal([]int{0, 0, 0, 0}))
	})
})

var _ = Describe("Mean", func() {
	It("is 0 for empty input", func() {
		Expect(stats.Mean(nil)).To(BeZero())
	})

	It("averages", func() {
		Expect(stats.Mean([]float64{1, 2, 3, 4})).To(BeNumerically("~", 2.5))
	})
})
