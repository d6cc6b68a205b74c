package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/darasa/core/user"
)

type userRepository struct {
	users    *mongo.Collection
	students *mongo.Collection
	teachers *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{
		users:    db.Collection(usersCol),
		students: db.Collection(studentsCol),
		teachers: db.Collection(teachersCol),
	}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = newID()
	if _, err := repo.users.InsertOne(ctx, usr); err != nil {
		if isDup(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	if err := repo.users.FindOne(ctx, bson.M{"_id": id}).Decode(&usr); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	if err := repo.users.FindOne(ctx, bson.M{"email": email}).Decode(&usr); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.users.ReplaceOne(ctx, bson.M{"_id": usr.ID}, usr)
	if err != nil {
		if isDup(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, err
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := repo.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) CreateStudent(ctx context.Context, std user.Student) (user.Student, error) {
	std.ID = newID()
	if std.Assignments == nil {
		std.Assignments = []user.AnswerSheet{}
	}
	if std.Exams == nil {
		std.Exams = []user.AnswerSheet{}
	}
	if _, err := repo.students.InsertOne(ctx, std); err != nil {
		return user.Student{}, err
	}
	return std, nil
}

func (repo *userRepository) GetStudentByID(ctx context.Context, id string) (user.Student, error) {
	var std user.Student
	if err := repo.students.FindOne(ctx, bson.M{"_id": id}).Decode(&std); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.Student{}, user.ErrProfileNotFound
		}
		return user.Student{}, err
	}
	return std, nil
}

func (repo *userRepository) UpdateStudent(ctx context.Context, std user.Student) (user.Student, error) {
	res, err := repo.students.ReplaceOne(ctx, bson.M{"_id": std.ID}, std)
	if err != nil {
		return user.Student{}, err
	}
	if res.MatchedCount == 0 {
		return user.Student{}, user.ErrProfileNotFound
	}
	return std, nil
}

// AppendAnswerSheet pushes the sheet iff no entry for its item id exists yet.
// The existence check is part of the update filter so two racing submissions
// cannot both get in.
func (repo *userRepository) AppendAnswerSheet(ctx context.Context, studentID, kind string, sheet user.AnswerSheet) error {
	field := "assignments"
	if kind == user.KindExam {
		field = "exams"
	}
	res, err := repo.students.UpdateOne(ctx,
		bson.M{"_id": studentID, field + ".itemId": bson.M{"$ne": sheet.ItemID}},
		bson.M{"$push": bson.M{field: sheet}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err = repo.GetStudentByID(ctx, studentID); err != nil {
			return err
		}
		return user.ErrAlreadyAnswered
	}
	return nil
}

func (repo *userRepository) DeleteStudent(ctx context.Context, id string) error {
	res, err := repo.students.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return user.ErrProfileNotFound
	}
	return nil
}

func (repo *userRepository) CreateTeacher(ctx context.Context, tch user.Teacher) (user.Teacher, error) {
	tch.ID = newID()
	if tch.ClassesTaken == nil {
		tch.ClassesTaken = []string{}
	}
	if _, err := repo.teachers.InsertOne(ctx, tch); err != nil {
		return user.Teacher{}, err
	}
	return tch, nil
}

func (repo *userRepository) GetTeacherByID(ctx context.Context, id string) (user.Teacher, error) {
	var tch user.Teacher
	if err := repo.teachers.FindOne(ctx, bson.M{"_id": id}).Decode(&tch); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.Teacher{}, user.ErrProfileNotFound
		}
		return user.Teacher{}, err
	}
	return tch, nil
}

func (repo *userRepository) UpdateTeacher(ctx context.Context, tch user.Teacher) (user.Teacher, error) {
	res, err := repo.teachers.ReplaceOne(ctx, bson.M{"_id": tch.ID}, tch)
	if err != nil {
		return user.Teacher{}, err
	}
	if res.MatchedCount == 0 {
		return user.Teacher{}, user.ErrProfileNotFound
	}
	return tch, nil
}

// AddClassTaken appends the class id iff it is not already there, under the
// same conditional-update contract as AppendAnswerSheet.
func (repo *userRepository) AddClassTaken(ctx context.Context, teacherID, classID string) error {
	res, err := repo.teachers.UpdateOne(ctx,
		bson.M{"_id": teacherID, "classesTaken": bson.M{"$ne": classID}},
		bson.M{"$push": bson.M{"classesTaken": classID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err = repo.GetTeacherByID(ctx, teacherID); err != nil {
			return err
		}
		return user.ErrClassTaken
	}
	return nil
}

func (repo *userRepository) DeleteTeacher(ctx context.Context, id string) error {
	res, err := repo.teachers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return user.ErrProfileNotFound
	}
	return nil
}
