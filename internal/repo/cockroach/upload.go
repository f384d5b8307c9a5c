package cockroach

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jmoiron/sqlx"
	"github.com/minio/minio-go/v7"
)

const uploadsBucket = "media-uploads"

type UploadDB struct {
	db          *sqlx.DB
	minioClient *minio.Client
}

func NewUpload(db *sqlx.DB, minioClient *minio.Client) (repo.Upload, error) {
	// Создаем бакет для вложений, предварительно проверив, что его нет
	ctx := context.TODO()
	exists, err := minioClient.BucketExists(ctx, uploadsBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = minioClient.MakeBucket(ctx, uploadsBucket, minio.MakeBucketOptions{
			ObjectLocking: true,
		})
		if err != nil {
			return nil, err
		}
	}
	return &UploadDB{
		db:          db,
		minioClient: minioClient,
	}, nil
}

func (u *UploadDB) GetUpload(id int) (*entity.Upload, error) {
	// Получаем upload из БД, потом загружаем его из S3
	upload, err := u.GetUploadInfo(id)
	if err != nil {
		return nil, err
	}
	ctx := context.TODO()
	object, err := u.minioClient.GetObject(ctx, uploadsBucket, upload.FilePath, minio.GetObjectOptions{
		Checksum: true,
	})
	if err != nil {
		return nil, err
	}
	upload.RawBytes = object
	return upload, nil
}

func (u *UploadDB) GetUploadInfo(id int) (*entity.Upload, error) {
	upload := &entity.Upload{}
	query := `SELECT id, file_path, file_type, uploaded_by_signer_id, created_at FROM mediafile WHERE id = $1`
	if err := u.db.Get(upload, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrUploadNotFound
		}
		return nil, err
	}
	return upload, nil
}

func (u *UploadDB) UploadFile(upload *entity.Upload) (int, error) {
	// Добавляем файл в S3 хранилище и создаём запись в БД
	ctx := context.TODO()
	rawBytes, err := io.ReadAll(upload.RawBytes)
	if err != nil {
		return 0, err
	}
	// так как считали все байты, то нужно создать новый буфер
	upload.RawBytes = bytes.NewBuffer(rawBytes)
	mediaType := mimetype.Detect(rawBytes)
	_, err = u.minioClient.PutObject(
		ctx,
		uploadsBucket,
		upload.FilePath,
		upload.RawBytes,
		int64(len(rawBytes)),
		minio.PutObjectOptions{
			ContentType: mediaType.String(),
		},
	)
	if err != nil {
		return 0, err
	}

	var id int
	query := `
		INSERT INTO mediafile (file_path, file_type, uploaded_by_signer_id, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id
	`
	err = u.db.QueryRow(query, upload.FilePath, upload.FileType, upload.SignerID).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
