package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/inmem"
)

func setup(t *testing.T) (*commandLine, user.Repository) {
	t.Helper()
	usrRepo := inmem.NewUserRepository(inmem.Open())
	return &commandLine{usrRepo: usrRepo}, usrRepo
}

func createUser(t *testing.T, repo user.Repository, email, pwd string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Email:     email,
		FirstName: "Awe",
		LastName:  "Some",
		Role:      user.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli, usrRepo := setup(t)

	existing := createUser(t, usrRepo, "old@test.cd", "initial")

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addadmin"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"addadmin", "-email", "a@test.cd", "-first", "A", "-last", "B"}, wantErr: errHelp},
		{name: "new admin", args: []string{"addadmin", "-email", "a@test.cd", "-first", "A", "-last", "B"}, pwd: "s3cr3t"},
		{name: "promote existing", args: []string{"addadmin", "-email", existing.Email, "-first", "X", "-last", "Y"}, pwd: "n3w"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			var email string
			for i, arg := range args {
				if arg == "-email" {
					email = args[i+1]
				}
			}
			usr, err := usrRepo.GetUserByEmail(context.Background(), email)
			if err != nil {
				t.Fatalf("GetUserByEmail() failed, %v", err)
			}
			if usr.Role != user.RoleAdmin {
				t.Errorf("role = %s, want %s", usr.Role, user.RoleAdmin)
			}
			if usr.CheckPassword(tt.pwd) != nil {
				t.Error("failed to set new password")
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrRepo := setup(t)

	usr := createUser(t, usrRepo, "awe@test.cd", "mdr")

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", usr.Email}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, pwd: "lmao"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}

			refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
			if err != nil {
				t.Fatalf("GetUserByID() failed, %v", err)
			}
			if bytes.Equal(refreshed.PasswordHash, usr.PasswordHash) {
				t.Error("failed to update new password")
			}
			if refreshed.CheckPassword(tt.pwd) != nil {
				t.Error("new password does not verify")
			}
		})
	}
}
