package whatsapp

import "github.com/vaadbayit/reconciler/internal/domain"

// templates, per language and kind. Placeholders in braces are substituted
// by Render.
var templates = map[domain.Language]map[MessageKind]string{
	domain.LanguageHebrew: {
		KindReminder: `שלום {tenant_name},

תזכורת ידידותית לתשלום דמי הבית עבור {building_name}.

🏠 דירה: {apartment_number}
💰 סכום לתשלום: {amount}₪
📅 תקופה: {period}

אנא העבירו את התשלום בהקדם האפשרי.

תודה רבה!`,
		KindReceived: `שלום {tenant_name},

קיבלנו את תשלומך עבור דמי הבית!

🏠 דירה: {apartment_number}
💰 סכום שהתקבל: {amount}₪
📅 תקופה: {period}

תודה רבה!`,
		KindPartial: `שלום {tenant_name},

קיבלנו תשלום חלקי עבור דמי הבית.

🏠 דירה: {apartment_number}
💰 סכום שהתקבל: {paid_amount}₪
💰 סכום צפוי: {expected_amount}₪
📊 יתרה לתשלום: {remaining}₪
📅 תקופה: {period}

אנא השלימו את היתרה בהקדם האפשרי.

תודה!`,
		KindOverpayment: `שלום {tenant_name},

קיבלנו תשלום עבור דמי הבית.

🏠 דירה: {apartment_number}
💰 סכום שהתקבל: {paid_amount}₪
💰 סכום צפוי: {expected_amount}₪
📊 תשלום יתר: {overpayment}₪
📅 תקופה: {period}

התשלום היתר יקוזז מהחודש הבא.

תודה רבה!`,
	},
	domain.LanguageEnglish: {
		KindReminder: `Hello {tenant_name},

Friendly reminder for building maintenance payment for {building_name}.

🏠 Apartment: {apartment_number}
💰 Amount due: ₪{amount}
📅 Period: {period}

Please transfer the payment as soon as possible.

Thank you!`,
		KindReceived: `Hello {tenant_name},

We received your building maintenance payment!

🏠 Apartment: {apartment_number}
💰 Amount received: ₪{amount}
📅 Period: {period}

Thank you!`,
		KindPartial: `Hello {tenant_name},

We received a partial payment for building maintenance.

🏠 Apartment: {apartment_number}
💰 Amount received: ₪{paid_amount}
💰 Expected amount: ₪{expected_amount}
📊 Balance due: ₪{remaining}
📅 Period: {period}

Please complete the balance as soon as possible.

Thank you!`,
		KindOverpayment: `Hello {tenant_name},

We received your building maintenance payment.

🏠 Apartment: {apartment_number}
💰 Amount received: ₪{paid_amount}
💰 Expected amount: ₪{expected_amount}
📊 Overpayment: ₪{overpayment}
📅 Period: {period}

The overpayment will be credited to next month.

Thank you!`,
	},
}
