package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/quillhub/quillhub-backend/models"
)

func TestNilPrincipalAlwaysRejected(t *testing.T) {
	for _, kind := range []Kind{KindBlog, KindPost, KindTag, KindUser} {
		for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
			assert.False(t, Allowed(nil, action, kind, nil))
		}
	}
}

func TestSuperuserBypassesEveryCheck(t *testing.T) {
	super := &models.User{ID: uuid.New(), IsSuperuser: true}
	otherBlog := &models.Blog{ID: uuid.New(), UserID: uuid.New()}

	for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
		assert.True(t, Allowed(super, action, KindBlog, otherBlog))
		assert.True(t, Allowed(super, action, KindTag, nil))
	}
}

func TestBlogDecisions(t *testing.T) {
	owner := &models.User{ID: uuid.New()}
	stranger := &models.User{ID: uuid.New()}
	blog := &models.Blog{ID: uuid.New(), UserID: owner.ID}

	assert.True(t, Allowed(owner, ActionRead, KindBlog, nil))
	assert.True(t, Allowed(stranger, ActionRead, KindBlog, blog))
	assert.True(t, Allowed(stranger, ActionCreate, KindBlog, nil))

	assert.True(t, Allowed(owner, ActionUpdate, KindBlog, blog))
	assert.True(t, Allowed(owner, ActionDelete, KindBlog, blog))
	assert.False(t, Allowed(stranger, ActionUpdate, KindBlog, blog))
	assert.False(t, Allowed(stranger, ActionDelete, KindBlog, blog))
}

func TestPostOwnershipFollowsBlogUser(t *testing.T) {
	owner := &models.User{ID: uuid.New()}
	stranger := &models.User{ID: uuid.New()}
	post := &models.Post{
		ID:   uuid.New(),
		Blog: models.Blog{ID: uuid.New(), UserID: owner.ID},
	}

	assert.True(t, Allowed(stranger, ActionRead, KindPost, post))
	assert.True(t, Allowed(stranger, ActionCreate, KindPost, nil))
	assert.True(t, Allowed(owner, ActionUpdate, KindPost, post))
	assert.False(t, Allowed(stranger, ActionUpdate, KindPost, post))
	assert.False(t, Allowed(stranger, ActionDelete, KindPost, post))
}

func TestTagWritesAreSuperuserOnly(t *testing.T) {
	regular := &models.User{ID: uuid.New()}
	tag := &models.Tag{ID: uuid.New(), Name: "go"}

	assert.True(t, Allowed(regular, ActionRead, KindTag, tag))
	assert.False(t, Allowed(regular, ActionCreate, KindTag, nil))
	assert.False(t, Allowed(regular, ActionUpdate, KindTag, tag))
	assert.False(t, Allowed(regular, ActionDelete, KindTag, tag))
}

func TestUserVisibilityIsSelfOnly(t *testing.T) {
	me := &models.User{ID: uuid.New()}
	other := &models.User{ID: uuid.New()}

	assert.True(t, Allowed(me, ActionRead, KindUser, nil))
	assert.True(t, Allowed(me, ActionRead, KindUser, me))
	assert.False(t, Allowed(me, ActionRead, KindUser, other))
	assert.False(t, Allowed(me, ActionUpdate, KindUser, me))
	assert.False(t, Allowed(me, ActionDelete, KindUser, other))
}
