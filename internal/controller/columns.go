package controller

import (
	"github.com/naveenspark/mbadmin/internal/table"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

// UserColumns is the column manifest of the user management table.
func UserColumns() []table.Column[domain.User] {
	return []table.Column[domain.User]{
		{
			Key: "id", Label: "ID", Width: 5,
			Value: func(u domain.User) any { return u.ID },
		},
		{
			Key: "name", Label: "Name", Width: 22,
			Value: func(u domain.User) any { return u.FullName() },
		},
		{
			Key: "email", Label: "Email", Width: 28,
			Value: func(u domain.User) any { return u.Email },
		},
		{
			Key: "gender", Label: "Gender", Width: 8,
			Value: func(u domain.User) any { return domain.GenderLabel(u.GenderID) },
		},
		{
			Key: "verified", Label: "Verified", Width: 9,
			Value: func(u domain.User) any { return u.IsVerified },
			Render: func(_ any, u domain.User) string {
				if u.IsVerified {
					return "yes"
				}
				return "no"
			},
		},
		{
			Key: "status", Label: "Status", Width: 10,
			Value: func(u domain.User) any { return domain.RecordStatusLabel(u.RecordStatusID) },
		},
		{
			Key: "created", Label: "Created", Width: 12,
			Value: func(u domain.User) any { return u.CreatedDate },
			Render: func(_ any, u domain.User) string {
				if u.CreatedDate.IsZero() {
					return "-"
				}
				return u.CreatedDate.Format(DateFormat)
			},
		},
		{
			Key: "avatar", Label: "Avatar", Width: 6, NoSort: true,
			Render: func(_ any, u domain.User) string {
				if u.Avatar == nil || *u.Avatar == "" {
					return "-"
				}
				return "link"
			},
		},
	}
}
