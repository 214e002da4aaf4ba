package portal

// User-visible messages shown next to the form.
const (
	msgUnexpected          = "حدث خطأ غير متوقع"
	msgInvalidNationalID   = "رقم الهوية يجب أن يتكون من 9 أرقام"
	msgSearchFailed        = "حدث خطأ أثناء البحث"
	msgInvalidPIN          = "كلمة المرور يجب أن تتكون من 6 أرقام"
	msgPINMismatch         = "كلمة المرور غير متطابقة"
	msgCreatePINFailed     = "حدث خطأ أثناء إنشاء كلمة المرور"
	msgCredentialExists    = "تم إنشاء كلمة مرور لهذا المستفيد مسبقاً"
	msgWrongPIN            = "كلمة المرور غير صحيحة"
	msgLoginFailed         = "حدث خطأ أثناء تسجيل الدخول"
	msgInvalidCodeFormat   = "رمز التحقق يجب أن يتكون من 6 أرقام"
	msgCodeRejected        = "رمز التحقق غير صحيح أو منتهي الصلاحية"
	msgVerifyFailed        = "حدث خطأ أثناء التحقق"
	msgCodeSent            = "تم إرسال رمز التحقق عبر واتساب"
	msgSendCodeFailed      = "حدث خطأ أثناء إرسال رمز التحقق"
	msgRegistrationPending = "لم يكتمل التسجيل بعد"
	msgInvalidLocation     = "إحداثيات الموقع غير صالحة"
	msgLocationShared      = "تم مشاركة موقعك بنجاح"
	msgNoChange            = "لم يتم إجراء أي تغيير"
	msgFieldReadOnly       = "لا يمكن تعديل هذا الحقل"
	msgPhoneLocked         = "رقم الهاتف مقفل ولا يمكن تعديله. هذا لضمان أمان حسابك."
	msgUpdateSubmitted     = "تم إرسال طلب التحديث بنجاح"
	msgUpdateFailed        = "حدث خطأ أثناء إرسال الطلب"

	// SupportMessage pre-fills the support chat.
	SupportMessage = "مرحباً، أحتاج مساعدة في بوابة المستفيدين"
)

// Activity log descriptions.
const (
	auditSearch        = "بحث عن مستفيد برقم هوية: %s"
	auditCreatePIN     = "إنشاء كلمة مرور جديدة"
	auditLogin         = "تسجيل دخول ناجح"
	auditVerifyOTP     = "تأكيد رمز التحقق"
	auditShareLocation = "مشاركة الموقع: %g, %g"
	auditUpdateRequest = "طلب تحديث بيانات: %s"
	unknownActor       = "غير معروف"
)
