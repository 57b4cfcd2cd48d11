package sqlinline

const QSelectProfileByID = `--sql c25db661-35f7-4585-b5b6-74e6b1f91f78
select id, email, full_name, role, birth_date, subscription_status, subscription_plan, created_at, updated_at
from profiles
where id = $1::uuid
limit 1;
`

const QSelectProfileEntitlement = `--sql 98dcbb71-1585-4dd8-9270-4fb18038aeae
select subscription_status, subscription_plan
from profiles
where id = $1::uuid
limit 1;
`

const QUpdateProfileEntitlement = `--sql 9c38241f-0d8d-4163-aa33-47f50864d7f3
update profiles
set subscription_status = nullif($2::text, ''),
    subscription_plan = nullif($3::text, ''),
    updated_at = now()
where id = $1::uuid;
`

const QSelectProfileRole = `--sql 0a028ae4-584d-40b4-9536-5231f7af3e10
select role
from profiles
where id = $1::uuid
limit 1;
`

const QSelectProfileIDByEmail = `--sql 271295b3-39d2-4ff9-98ad-f090ca6c392d
select id
from profiles
where lower(email) = lower($1::text)
limit 1;
`

const QSelectBirthdayProfiles = `--sql 9d945d4f-e249-4c44-a6d7-b600709ee0d2
select id, email, full_name
from profiles
where birth_date is not null
  and extract(month from birth_date) = $1::int
  and extract(day from birth_date) = $2::int
order by created_at;
`
