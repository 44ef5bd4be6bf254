package validator

import "testing"

func TestValidator_TransferRequest(t *testing.T) {
	v := New()

	valid := TransferRequest{
		AccountNo: "1111 2222 3333 4444",
		Pincode:   "123",
		ReceiveNo: "5555 6666 7777 8888",
		Amount:    100,
		CourseID:  1,
		TeacherID: 2,
	}

	if errs := v.Validate(&valid); len(errs) > 0 {
		t.Fatalf("Expected valid request, got %v", errs)
	}

	tests := []struct {
		name   string
		mutate func(*TransferRequest)
		field  string
	}{
		{"card without spaces", func(r *TransferRequest) { r.AccountNo = "1111222233334444" }, "accountNo"},
		{"card with letters", func(r *TransferRequest) { r.AccountNo = "1111 2222 3333 444x" }, "accountNo"},
		{"short pin", func(r *TransferRequest) { r.Pincode = "12" }, "pincode"},
		{"non-digit pin", func(r *TransferRequest) { r.Pincode = "12a" }, "pincode"},
		{"zero amount", func(r *TransferRequest) { r.Amount = 0 }, "amount"},
		{"negative amount", func(r *TransferRequest) { r.Amount = -5 }, "amount"},
		{"missing course", func(r *TransferRequest) { r.CourseID = 0 }, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			errs := v.Validate(&req)
			if len(errs) == 0 {
				t.Fatal("Expected a validation error")
			}
			if errs[0].Field != tt.field {
				t.Errorf("Expected error on %q, got %q", tt.field, errs[0].Field)
			}
		})
	}
}

func TestValidator_RegisterRequests(t *testing.T) {
	v := New()

	t.Run("rejects a malformed email", func(t *testing.T) {
		req := StudentRegisterRequest{
			Name:     "Alice",
			Email:    "not-an-email",
			Password: "secret123",
			Profile:  "@alice",
		}
		errs := v.Validate(&req)
		if len(errs) == 0 || errs[0].Field != "email" {
			t.Fatalf("Expected an email error, got %v", errs)
		}
	})

	t.Run("rejects a short password", func(t *testing.T) {
		req := StudentRegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "abc",
			Profile:  "@alice",
		}
		errs := v.Validate(&req)
		if len(errs) == 0 || errs[0].Field != "password" {
			t.Fatalf("Expected a password error, got %v", errs)
		}
	})

	t.Run("requires a teacher bio", func(t *testing.T) {
		req := TeacherRegisterRequest{
			Name:     "Bob",
			Email:    "bob@example.com",
			Password: "secret123",
			Profile:  "@bob",
		}
		errs := v.Validate(&req)
		if len(errs) == 0 || errs[0].Field != "bio" {
			t.Fatalf("Expected a bio error, got %v", errs)
		}
	})
}
