package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/zlnvch/blogverse/models"
	"github.com/zlnvch/blogverse/store"
)

type DynamoBlogverseStore struct {
	client     *dynamodb.Client
	usersTable string
	blogsTable string
}

func NewDynamoBlogverseStore(ctx context.Context, devMode bool, dynamodbEndpoint string, usersTable string, blogsTable string, createTables bool) (*DynamoBlogverseStore, error) {
	client, err := newDynamoDBClient(ctx, devMode, dynamodbEndpoint)
	if err != nil {
		return nil, err
	}

	tables, err := getTables(client, ctx)
	if err != nil {
		return nil, err
	}

	for _, def := range []tableDef{usersTableDef(usersTable), blogsTableDef(blogsTable)} {
		if containsString(tables, def.name) {
			continue
		}
		if !createTables {
			return nil, fmt.Errorf("given table name '%s' not found in dynamodb", def.name)
		}
		if err := createTable(ctx, client, def); err != nil {
			return nil, err
		}
	}

	return &DynamoBlogverseStore{client: client, usersTable: usersTable, blogsTable: blogsTable}, nil
}

func (dynamoStore *DynamoBlogverseStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.UserId == "" {
		return models.User{}, fmt.Errorf("user id is required")
	}
	if user.Created == 0 {
		user.Created = time.Now().Unix()
	}

	du := userToDynamo(user)
	if err := putItemIfAbsent(dynamoStore, ctx, dynamoStore.usersTable, attrUserId, du); err != nil {
		return models.User{}, err
	}

	return userFromDynamo(du), nil
}

// GetUser reads strongly consistent: backlink removal compares against the
// sequence read here, so a stale read would lose a concurrent append.
func (dynamoStore *DynamoBlogverseStore) GetUser(ctx context.Context, userId string) (models.User, error) {
	du, err := getItem[dynamoUser](dynamoStore, ctx, dynamoStore.usersTable, attrUserId, userId, true)
	if err != nil {
		return models.User{}, err
	}
	return userFromDynamo(du), nil
}

func (dynamoStore *DynamoBlogverseStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	users, err := queryAllByGSI[dynamoUser](dynamoStore, ctx, dynamoStore.usersTable, emailIndex, attrEmail, email)
	if err != nil {
		return models.User{}, err
	}
	if len(users) == 0 {
		return models.User{}, store.ErrItemNotFound
	}
	// Email is unique by convention only; the oldest record wins if a sign-up race slipped through
	oldest := users[0]
	for _, u := range users[1:] {
		if u.Created < oldest.Created {
			oldest = u
		}
	}
	return userFromDynamo(oldest), nil
}

func (dynamoStore *DynamoBlogverseStore) ListUsers(ctx context.Context) ([]models.User, error) {
	dus, err := scanAll[dynamoUser](dynamoStore, ctx, dynamoStore.usersTable)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(dus))
	for _, du := range dus {
		users = append(users, userFromDynamo(du))
	}
	return users, nil
}

func (dynamoStore *DynamoBlogverseStore) AppendUserBlog(ctx context.Context, userId string, blogId string) error {
	return appendToList(dynamoStore, ctx, dynamoStore.usersTable, attrUserId, userId, attrBlogs, blogId, false)
}

func (dynamoStore *DynamoBlogverseStore) AppendUserBlogIfAbsent(ctx context.Context, userId string, blogId string) error {
	return appendToList(dynamoStore, ctx, dynamoStore.usersTable, attrUserId, userId, attrBlogs, blogId, true)
}

func (dynamoStore *DynamoBlogverseStore) SetUserBlogs(ctx context.Context, userId string, blogs []string, prior []string) error {
	return setList(dynamoStore, ctx, dynamoStore.usersTable, attrUserId, userId, attrBlogs, blogs, prior)
}

func (dynamoStore *DynamoBlogverseStore) CreateBlog(ctx context.Context, blog models.Blog) (models.Blog, error) {
	if blog.BlogId == "" {
		return models.Blog{}, fmt.Errorf("blog id is required")
	}

	db := blogToDynamo(blog)
	if err := putItemIfAbsent(dynamoStore, ctx, dynamoStore.blogsTable, attrBlogId, db); err != nil {
		return models.Blog{}, err
	}

	return blogFromDynamo(db), nil
}

// GetBlog reads strongly consistent so a blog is visible to delete and repair
// right after it is created.
func (dynamoStore *DynamoBlogverseStore) GetBlog(ctx context.Context, blogId string) (models.Blog, error) {
	db, err := getItem[dynamoBlog](dynamoStore, ctx, dynamoStore.blogsTable, attrBlogId, blogId, true)
	if err != nil {
		return models.Blog{}, err
	}
	return blogFromDynamo(db), nil
}

func (dynamoStore *DynamoBlogverseStore) ListBlogs(ctx context.Context) ([]models.Blog, error) {
	dbs, err := scanAll[dynamoBlog](dynamoStore, ctx, dynamoStore.blogsTable)
	if err != nil {
		return nil, err
	}
	return blogsFromDynamo(dbs), nil
}

func (dynamoStore *DynamoBlogverseStore) UpdateBlog(ctx context.Context, blogId string, update models.BlogUpdate) (models.Blog, error) {
	values := blogUpdateValues(update)
	if len(values) == 0 {
		return dynamoStore.GetBlog(ctx, blogId)
	}

	db, err := updateItem[dynamoBlog](dynamoStore, ctx, dynamoStore.blogsTable, attrBlogId, blogId, values)
	if err != nil {
		return models.Blog{}, err
	}
	return blogFromDynamo(db), nil
}

func (dynamoStore *DynamoBlogverseStore) DeleteBlog(ctx context.Context, blogId string) error {
	return deleteItemIfExists(dynamoStore, ctx, dynamoStore.blogsTable, attrBlogId, blogId)
}

func (dynamoStore *DynamoBlogverseStore) ListBlogsByUser(ctx context.Context, userId string) ([]models.Blog, error) {
	dbs, err := queryAllByGSI[dynamoBlog](dynamoStore, ctx, dynamoStore.blogsTable, userBlogsIndex, attrUserId, userId)
	if err != nil {
		return nil, err
	}
	return blogsFromDynamo(dbs), nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
