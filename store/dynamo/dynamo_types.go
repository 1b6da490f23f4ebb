package dynamo

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/zlnvch/blogverse/models"
)

// Attribute names shared by both tables. "desc" is a DynamoDB reserved word,
// so every expression goes through ExpressionAttributeNames.
const (
	attrUserId    = "userId"
	attrEmail     = "email"
	attrBlogs     = "blogs"
	attrBlogId    = "blogId"
	attrUserEmail = "userEmail"
	attrTitle     = "title"
	attrDesc      = "desc"
	attrImg       = "img"
)

const (
	emailIndex     = "EmailIndex"
	userBlogsIndex = "UserBlogsIndex"
)

type dynamoUser struct {
	UserId   string   `dynamodbav:"userId"`
	Name     string   `dynamodbav:"name"`
	Email    string   `dynamodbav:"email"`
	Password string   `dynamodbav:"password"`
	Blogs    []string `dynamodbav:"blogs"`
	Created  int64    `dynamodbav:"created"`
}

// Map domain User -> Dynamo
func userToDynamo(u models.User) dynamoUser {
	blogs := u.Blogs
	if blogs == nil {
		blogs = []string{}
	}
	return dynamoUser{
		UserId:   u.UserId,
		Name:     u.Name,
		Email:    u.Email,
		Password: u.PasswordHash,
		Blogs:    blogs,
		Created:  u.Created,
	}
}

// Map Dynamo -> domain User
func userFromDynamo(du dynamoUser) models.User {
	blogs := du.Blogs
	if blogs == nil {
		blogs = []string{}
	}
	return models.User{
		UserId:       du.UserId,
		Name:         du.Name,
		Email:        du.Email,
		PasswordHash: du.Password,
		Blogs:        blogs,
		Created:      du.Created,
	}
}

type dynamoBlog struct {
	BlogId    string    `dynamodbav:"blogId"`
	UserId    string    `dynamodbav:"userId"`
	UserEmail string    `dynamodbav:"userEmail"`
	Title     string    `dynamodbav:"title"`
	Desc      string    `dynamodbav:"desc"`
	Img       string    `dynamodbav:"img,omitempty"`
	Date      time.Time `dynamodbav:"date"`
}

// Map domain Blog -> Dynamo
func blogToDynamo(b models.Blog) dynamoBlog {
	return dynamoBlog{
		BlogId:    b.BlogId,
		UserId:    b.UserId,
		UserEmail: b.UserEmail,
		Title:     b.Title,
		Desc:      b.Desc,
		Img:       b.Img,
		Date:      b.Date,
	}
}

// Map Dynamo -> domain Blog
func blogFromDynamo(db dynamoBlog) models.Blog {
	return models.Blog{
		BlogId:    db.BlogId,
		UserId:    db.UserId,
		UserEmail: db.UserEmail,
		Title:     db.Title,
		Desc:      db.Desc,
		Img:       db.Img,
		Date:      db.Date,
	}
}

func blogsFromDynamo(dbs []dynamoBlog) []models.Blog {
	blogs := make([]models.Blog, 0, len(dbs))
	for _, db := range dbs {
		blogs = append(blogs, blogFromDynamo(db))
	}
	return blogs
}

// blogUpdateValues returns the attribute values for the supplied fields only.
// Key and owner attributes are never part of the result.
func blogUpdateValues(update models.BlogUpdate) map[string]types.AttributeValue {
	values := make(map[string]types.AttributeValue)
	if update.Title != nil {
		values[attrTitle] = &types.AttributeValueMemberS{Value: *update.Title}
	}
	if update.Desc != nil {
		values[attrDesc] = &types.AttributeValueMemberS{Value: *update.Desc}
	}
	if update.Img != nil {
		values[attrImg] = &types.AttributeValueMemberS{Value: *update.Img}
	}
	return values
}

func stringList(values []string) (types.AttributeValue, error) {
	if values == nil {
		values = []string{}
	}
	return attributevalue.Marshal(values)
}
