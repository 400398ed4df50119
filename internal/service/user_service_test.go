package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := &UserService{db: newTestDB(t)}

	user, err := svc.Register("zhangsan", "secret123", "zhangsan@example.com")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	// 密码不以明文存储
	assert.NotEqual(t, "secret123", user.Password)

	authed, err := svc.Authenticate("zhangsan", "secret123")
	require.NoError(t, err)
	require.NotNil(t, authed)
	assert.Equal(t, user.ID, authed.ID)

	// 密码错误
	authed, err = svc.Authenticate("zhangsan", "wrong")
	require.NoError(t, err)
	assert.Nil(t, authed)

	// 用户不存在
	authed, err = svc.Authenticate("nobody", "secret123")
	require.NoError(t, err)
	assert.Nil(t, authed)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := &UserService{db: newTestDB(t)}

	_, err := svc.Register("zhangsan", "secret123", "zhangsan@example.com")
	require.NoError(t, err)

	_, err = svc.Register("zhangsan", "other", "other@example.com")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register("lisi", "other", "zhangsan@example.com")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthenticateDisabledUser(t *testing.T) {
	db := newTestDB(t)
	svc := &UserService{db: db}

	user, err := svc.Register("zhangsan", "secret123", "zhangsan@example.com")
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("enabled", false).Error)

	authed, err := svc.Authenticate("zhangsan", "secret123")
	require.NoError(t, err)
	assert.Nil(t, authed)
}

func TestUpdateProfile(t *testing.T) {
	svc := &UserService{db: newTestDB(t)}

	user, err := svc.Register("zhangsan", "secret123", "zhangsan@example.com")
	require.NoError(t, err)

	err = svc.UpdateProfile(user.ID, map[string]any{
		"target_role":       "Go后端工程师",
		"leetcode_username": "zhangsan_lc",
		"password":          "hacked", // 不在白名单里,应被忽略
	})
	require.NoError(t, err)

	updated, err := svc.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go后端工程师", updated.TargetRole)
	assert.Equal(t, "zhangsan_lc", updated.LeetcodeUsername)
	assert.True(t, updated.CheckPassword("secret123"))
}

func TestGetByIDNotFound(t *testing.T) {
	svc := &UserService{db: newTestDB(t)}

	user, err := svc.GetByID(999)
	require.NoError(t, err)
	assert.Nil(t, user)
}
