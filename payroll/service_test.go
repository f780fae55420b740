package payroll_test

import (
	"context"
	"errors"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/payroll"
	"github.com/dayflow/hr-engine/store/memory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

var _ = Describe("Service", func() {
	var (
		ctx      context.Context
		store    *memory.Store
		svc      *payroll.Service
		admin    = generic.Actor{EmployeeID: "admin", Role: generic.RoleAdmin}
		hr       = generic.Actor{EmployeeID: "hr-1", Role: generic.RoleHR}
		employee = generic.Actor{EmployeeID: "emp-1", Role: generic.RoleEmployee}
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.New()
		Expect(store.SaveEmployee(ctx, generic.Employee{
			ID: "emp-1", Name: "Emma Stone", Email: "emma@example.com", Role: generic.RoleEmployee,
		})).To(Succeed())
		svc = payroll.NewService(store.Payroll())
	})

	Describe("GetOrCreate", func() {
		It("creates a zeroed structure on first access and returns it afterwards", func() {
			first, err := svc.GetOrCreate(ctx, admin, "emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(first.BasicSalary.IsZero()).To(BeTrue())
			Expect(first.MonthlyWorkingDays).To(Equal(22))

			second, err := svc.GetOrCreate(ctx, hr, "emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(second.CreatedAt).To(Equal(first.CreatedAt))
		})

		It("refuses employees", func() {
			_, err := svc.GetOrCreate(ctx, employee, "emp-1")
			Expect(err).To(MatchError(generic.ErrForbidden))
		})

		It("fails for an unknown employee", func() {
			_, err := svc.GetOrCreate(ctx, admin, "ghost")
			Expect(err).To(MatchError(generic.ErrNotFound))
		})
	})

	Describe("Update", func() {
		It("applies only the supplied fields", func() {
			_, err := svc.Update(ctx, admin, "emp-1", payroll.Patch{
				BasicSalary:   ptr(decimal.NewFromInt(60000)),
				HRAPercentage: ptr(decimal.NewFromInt(50)),
			})
			Expect(err).NotTo(HaveOccurred())

			updated, err := svc.Update(ctx, admin, "emp-1", payroll.Patch{
				IncomeTax: ptr(decimal.NewFromInt(8000)),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(updated.BasicSalary.StringFixed(2)).To(Equal("60000.00"))
			Expect(updated.IncomeTax.StringFixed(2)).To(Equal("8000.00"))
			Expect(updated.Breakdown().HRA.StringFixed(2)).To(Equal("30000.00"))

			stored, err := svc.GetOrCreate(ctx, admin, "emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Breakdown().Net.StringFixed(2)).To(Equal("82000.00"))
		})

		It("rounds stored amounts to two places", func() {
			updated, err := svc.Update(ctx, admin, "emp-1", payroll.Patch{
				BasicSalary: ptr(generic.MustParseDecimal("1000.005")),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.BasicSalary.String()).To(Equal("1000.01"))
		})

		DescribeTable("rejects invalid input",
			func(p payroll.Patch) {
				_, err := svc.Update(ctx, admin, "emp-1", p)
				Expect(err).To(MatchError(generic.ErrValidation))
			},
			Entry("negative basic", payroll.Patch{BasicSalary: ptr(decimal.NewFromInt(-1))}),
			Entry("negative tax", payroll.Patch{IncomeTax: ptr(decimal.NewFromInt(-200))}),
			Entry("percentage above 100", payroll.Patch{PFPercentage: ptr(decimal.NewFromInt(101))}),
			Entry("negative percentage", payroll.Patch{HRAPercentage: ptr(decimal.NewFromInt(-5))}),
			Entry("zero working days", payroll.Patch{MonthlyWorkingDays: ptr(0)}),
			Entry("six weeks per month", payroll.Patch{WeeksPerMonth: ptr(6)}),
		)

		It("reports the first invalid field in a stable order", func() {
			p := payroll.Patch{
				BasicSalary:  ptr(decimal.NewFromInt(-1)),
				IncomeTax:    ptr(decimal.NewFromInt(-1)),
				PFPercentage: ptr(decimal.NewFromInt(150)),
			}
			for i := 0; i < 20; i++ {
				var validation *generic.ValidationError
				Expect(errors.As(p.Validate(), &validation)).To(BeTrue())
				Expect(validation.Field).To(Equal("basic_salary"))
			}
		})

		It("refuses employees", func() {
			_, err := svc.Update(ctx, employee, "emp-1", payroll.Patch{})
			Expect(err).To(MatchError(generic.ErrForbidden))
		})
	})
})
