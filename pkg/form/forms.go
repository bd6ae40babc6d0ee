package form

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Field names used by the concrete forms.
const (
	FieldFirstname        = "firstname"
	FieldLastname         = "lastname"
	FieldUsername         = "username"
	FieldPassword         = "password"
	FieldName             = "name"
	FieldDescription      = "description"
	FieldQuantity         = "quantity"
	FieldPrice            = "price"
	FieldPromotionalPrice = "promotionalPrice"
	FieldCategoryID       = "categoryId"
	FieldProducerID       = "producerId"
	FieldRating           = "rating"
	FieldContent          = "content"
	FieldPhone            = "phone"
	FieldAddress          = "address"
)

// MaxProductImages is the number of image slots on a product; image0 is
// required.
const MaxProductImages = 6

func ImageField(i int) string { return fmt.Sprintf("image%d", i) }

// NewSignupForm asks for a name, an email or phone number and a strong
// password, and confirms before submitting. Fields clear on success.
func NewSignupForm(submit SubmitFunc, opts ...Option) *Form {
	opts = append([]Option{WithConfirm(), WithResetOnSuccess()}, opts...)
	return New(submit, opts...).
		Add(FieldFirstname, RuleName, true).
		Add(FieldLastname, RuleName, true).
		Add(FieldUsername, RuleEmail+"|"+RulePhone, true).
		Add(FieldPassword, RulePassword, true)
}

func NewSigninForm(submit SubmitFunc, opts ...Option) *Form {
	return New(submit, opts...).
		Add(FieldUsername, RuleEmail+"|"+RulePhone, true).
		Add(FieldPassword, RulePassword, true)
}

// NewProductForm collects a new product. The promotional price may not exceed
// the list price.
func NewProductForm(submit SubmitFunc, opts ...Option) *Form {
	opts = append([]Option{WithConfirm(), WithCheck(FieldPromotionalPrice, promoWithinPrice)}, opts...)
	f := New(submit, opts...).
		Add(FieldName, RuleAnything, true).
		Add(FieldDescription, RuleBio, true).
		AddNumber(FieldQuantity, NumPositive+"|"+NumZero, true).
		AddNumber(FieldPrice, NumPositive+"|"+NumZero, true).
		AddNumber(FieldPromotionalPrice, NumPositive+"|"+NumZero, true).
		Add(FieldCategoryID, "", true).
		Add(FieldProducerID, "", true)
	for i := 0; i < MaxProductImages; i++ {
		f.Add(ImageField(i), "", i == 0)
	}
	return f
}

func promoWithinPrice(v Values) bool {
	price, err := decimal.NewFromString(v.Get(FieldPrice))
	if err != nil {
		return false
	}
	promo, err := decimal.NewFromString(v.Get(FieldPromotionalPrice))
	if err != nil {
		return false
	}
	return promo.LessThanOrEqual(price)
}

func NewReviewForm(submit SubmitFunc, opts ...Option) *Form {
	opts = append([]Option{WithConfirm(), WithResetOnSuccess()}, opts...)
	return New(submit, opts...).
		AddNumber(FieldRating, NumOneTo5, true).
		Add(FieldContent, RuleNullable, false)
}

// NewCheckoutForm collects the delivery details for an order.
func NewCheckoutForm(submit SubmitFunc, opts ...Option) *Form {
	opts = append([]Option{WithConfirm()}, opts...)
	return New(submit, opts...).
		Add(FieldFirstname, RuleName, true).
		Add(FieldLastname, RuleName, true).
		Add(FieldPhone, RulePhone, true).
		Add(FieldAddress, RuleAddress, true)
}

// NewConfirmAction wraps a single row action (cancel order, delete or restore
// a category) that has no fields but must be confirmed.
func NewConfirmAction(submit SubmitFunc, opts ...Option) *Form {
	opts = append([]Option{WithConfirm()}, opts...)
	return New(submit, opts...)
}
