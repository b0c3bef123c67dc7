package conv_test

import (
	"testing"

	"github.com/dhiraj-001/MLM-sub000/conv"
	"github.com/go-playground/assert/v2"
	. "github.com/smartystreets/goconvey/convey"
)

func BenchmarkParseAmount(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = conv.ParseAmount("101000101.33232313")
	}
}

func TestParseAmount(t *testing.T) {
	Convey("Given a string representation of an amount", t, func() {
		Convey("I should be able to parse valid numbers", func() {
			amount, err := conv.ParseAmount("100")
			So(err, ShouldBeNil)
			So(conv.FormatMoney(amount), ShouldEqual, "100.00")

			amount, err = conv.ParseAmount(" 12.345 ")
			So(err, ShouldBeNil)
			So(conv.FormatMoney(amount), ShouldEqual, "12.34")
		})
		Convey("Invalid numbers should be rejected", func() {
			for _, s := range []string{"", "abc", "12.3.4", "NaN"} {
				_, err := conv.ParseAmount(s)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestFitsScale(t *testing.T) {
	for _, tt := range []struct {
		amount string
		want   bool
	}{
		{"25", true},
		{"25.5", true},
		{"25.5000", true},
		{"25.12", true},
		{"25.125", false},
		{"10.000000005", false},
		{"0.001", false},
	} {
		amount, err := conv.ParseAmount(tt.amount)
		assert.Equal(t, err, nil)
		assert.Equal(t, conv.FitsScale(amount, conv.MoneyScale), tt.want)
	}
	assert.Equal(t, conv.FitsScale(nil, conv.MoneyScale), false)
}

func TestFromFloat(t *testing.T) {
	Convey("Configuration floats are converted using their shortest representation", t, func() {
		So(conv.FormatRate(conv.FromFloat(0.02)), ShouldEqual, "0.0200")
		So(conv.FormatMoney(conv.Mul(conv.FromFloat(0.02), conv.FromInt(300))), ShouldEqual, "6.00")
		So(conv.FormatMoney(conv.Mul(conv.FromFloat(0.15), conv.FromInt(10000))), ShouldEqual, "1500.00")
	})
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "Whole amount", arg: "30", want: "30.00"},
		{name: "Truncates instead of rounding up", arg: "0.999", want: "0.99"},
		{name: "Small fraction", arg: "0.004", want: "0.00"},
		{name: "Keeps cents", arg: "4.56", want: "4.56"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := conv.ParseAmount(tt.arg)
			assert.Equal(t, err, nil)
			assert.Equal(t, conv.FormatMoney(conv.RoundMoney(amount)), tt.want)
		})
	}
}

func TestHelpers(t *testing.T) {
	Convey("Sum ignores nil values", t, func() {
		So(conv.FormatMoney(conv.Sum(conv.FromInt(1), nil, conv.FromFloat(2.5))), ShouldEqual, "3.50")
	})
	Convey("Min returns the smaller amount", t, func() {
		So(conv.FormatMoney(conv.Min(conv.FromInt(5), conv.FromFloat(4.2))), ShouldEqual, "4.20")
		So(conv.FormatMoney(conv.Min(conv.FromInt(5), conv.FromInt(7))), ShouldEqual, "5.00")
	})
	Convey("IsPositive rejects zero, negative and nil amounts", t, func() {
		So(conv.IsPositive(conv.FromInt(1)), ShouldBeTrue)
		So(conv.IsPositive(conv.FromInt(0)), ShouldBeFalse)
		So(conv.IsPositive(conv.FromInt(-1)), ShouldBeFalse)
		So(conv.IsPositive(nil), ShouldBeFalse)
	})
	Convey("ToFloat converts rates for display", t, func() {
		So(conv.ToFloat(conv.Mul(conv.FromFloat(0.06), conv.FromInt(100))), ShouldEqual, 6.0)
		So(conv.ToFloat(nil), ShouldEqual, 0.0)
	})
	Convey("FormatMoney handles nil", t, func() {
		So(conv.FormatMoney(nil), ShouldEqual, "0.00")
	})
}
