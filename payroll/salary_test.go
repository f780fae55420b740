package payroll_test

import (
	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/payroll"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var d = generic.MustParseDecimal

func expectAmount(actual interface{ StringFixed(int32) string }, want string) {
	GinkgoHelper()
	Expect(actual.StringFixed(2)).To(Equal(want))
}

var _ = Describe("Structure", func() {
	Describe("NewStructure", func() {
		It("starts zeroed with the default working-time configuration", func() {
			s := payroll.NewStructure("emp-1", 2025)

			Expect(s.EmployeeID).To(Equal(generic.EmployeeID("emp-1")))
			Expect(s.Year).To(Equal(2025))
			Expect(s.MonthlyWorkingDays).To(Equal(payroll.DefaultMonthlyWorkingDays))
			Expect(s.WeeksPerMonth).To(Equal(payroll.DefaultWeeksPerMonth))
			Expect(s.BasicSalary.IsZero()).To(BeTrue())

			b := s.Breakdown()
			Expect(b.Gross.IsZero()).To(BeTrue())
			Expect(b.Net.IsZero()).To(BeTrue())
		})
	})

	Describe("Breakdown", func() {
		var s payroll.Structure

		BeforeEach(func() {
			s = payroll.NewStructure("emp-1", 2025)
			s.BasicSalary = d("60000")
			s.HRAPercentage = d("50")
			s.StandardAllowancePercentage = d("30")
			s.PerformanceBonus = d("7000")
			s.LeaveTravelAllowance = d("3000")
			s.PFPercentage = d("12")
			s.ProfessionalTax = d("200")
			s.IncomeTax = d("8000")
		})

		It("derives every figure from the inputs", func() {
			b := s.Breakdown()

			expectAmount(b.HRA, "30000.00")
			expectAmount(b.StandardAllowance, "18000.00")
			expectAmount(b.Gross, "118000.00")
			expectAmount(b.PFContribution, "7200.00")
			expectAmount(b.TotalDeductions, "15400.00")
			expectAmount(b.Net, "102600.00")
			expectAmount(b.Annual, "1231200.00")
		})

		It("adds the fixed HRA component to the percentage", func() {
			s.HRAFixed = d("2500")

			b := s.Breakdown()

			expectAmount(b.HRA, "32500.00")
			expectAmount(b.Gross, "120500.00")
			expectAmount(b.Net, "105100.00")
		})

		It("reflects an input change immediately", func() {
			before := s.Breakdown()
			s.IncomeTax = d("9000")
			after := s.Breakdown()

			Expect(after.Net.Sub(before.Net).StringFixed(2)).To(Equal("-1000.00"))
		})

		It("allows deductions to exceed gross", func() {
			s = payroll.NewStructure("emp-1", 2025)
			s.BasicSalary = d("1000")
			s.IncomeTax = d("1500")

			expectAmount(s.Breakdown().Net, "-500.00")
		})

		DescribeTable("rounds half-up to two places",
			func(basic, pct, want string) {
				s = payroll.NewStructure("emp-1", 2025)
				s.BasicSalary = d(basic)
				s.PFPercentage = d(pct)

				expectAmount(s.Breakdown().PFContribution, want)
			},
			Entry("exact", "1000", "12", "120.00"),
			Entry("half rounds up", "0.1", "5", "0.01"),
			Entry("below half rounds down", "100.01", "12.5", "12.50"),
			Entry("thirds", "100", "33.333", "33.33"),
		)
	})
})
