package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FindTotal", func() {
	var (
		extractor *Extractor
		rawText   string
		total     float64
		found     bool
	)

	BeforeEach(func() {
		var err error
		extractor, err = New(nil)
		Expect(err).NotTo(HaveOccurred())
	})

	JustBeforeEach(func() {
		total, found = extractor.FindTotal(rawText)
	})

	When("no line has a total keyword", func() {
		BeforeEach(func() {
			rawText = "Milk 3.50\nBread 1.20\nThank you"
		})

		It("should find nothing", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("both a subtotal and a total are printed", func() {
		BeforeEach(func() {
			rawText = "Subtotal: 8.00\nTax: 0.64\nTotal: 10.50"
		})

		It("should return the largest candidate", func() {
			Expect(found).To(BeTrue())
			Expect(total).To(Equal(10.50))
		})
	})

	When("the total uses a comma as decimal separator", func() {
		BeforeEach(func() {
			rawText = "Total 10,50"
		})

		It("should normalize the comma", func() {
			Expect(found).To(BeTrue())
			Expect(total).To(Equal(10.50))
		})
	})

	DescribeTable("keyword and separator variants",
		func(text string, expected float64) {
			e, err := New(nil)
			Expect(err).NotTo(HaveOccurred())
			got, ok := e.FindTotal(text)
			Expect(ok).To(BeTrue())
			Expect(got).To(BeNumerically("~", expected, 1e-9))
		},
		Entry("italian with currency word", "TOTALE EURO 12,50", 12.50),
		Entry("balance due with dollar sign", "Balance due $42.75", 42.75),
		Entry("importo with euro sign and integer", "Importo: €7", 7.0),
		Entry("equals sign", "TOTAL = 15", 15.0),
		Entry("single decimal digit", "Net Total 3.5", 3.5),
		Entry("multi-word keyword on several spaces", "AMOUNT   DUE: 19.99", 19.99),
		Entry("czech keyword", "Celkem 250,00", 250.0),
		Entry("paid line", "Pagato 20,00\nTotale 18,40", 20.0),
		Entry("thousands grouping stops at two decimals after the first separator", "Total 1,234.56", 1.23),
	)

	When("a keyword is followed by text instead of a number", func() {
		BeforeEach(func() {
			rawText = "Total items\nTotal 4.20"
		})

		It("should skip it and keep the numeric candidate", func() {
			Expect(found).To(BeTrue())
			Expect(total).To(Equal(4.20))
		})
	})

	When("custom keywords are configured", func() {
		BeforeEach(func() {
			rules := DefaultRules()
			rules.TotalKeywords = []string{"summa"}
			var err error
			extractor, err = New(nil, WithRules(rules))
			Expect(err).NotTo(HaveOccurred())
			rawText = "Summa 3,30\nTotal 99.00"
		})

		It("should only use those keywords", func() {
			Expect(found).To(BeTrue())
			Expect(total).To(Equal(3.30))
		})
	})
})

var _ = Describe("parseAmount", func() {
	DescribeTable("parsing",
		func(in string, expected float64, ok bool) {
			got, parsed := parseAmount(in)
			Expect(parsed).To(Equal(ok))
			if ok {
				Expect(got).To(BeNumerically("~", expected, 1e-9))
			}
		},
		Entry("dot decimal", "3.50", 3.50, true),
		Entry("comma decimal", "3,50", 3.50, true),
		Entry("integer", "12", 12.0, true),
		Entry("european grouping", "1.234,56", 1234.56, true),
		Entry("us grouping", "1,234.56", 1234.56, true),
		Entry("empty", "", 0.0, false),
		Entry("letters", "N/A", 0.0, false),
	)
})
